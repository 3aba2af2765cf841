// Package reconcile implements the receipt-to-catalog reconciliation engine:
// a stateful session over parsed receipt lines that associates each line with
// a catalog product via barcode fast-path lookup and multi-criteria fuzzy
// scoring, with every decision open to manual override before confirmation.
package reconcile

import (
	"context"

	"github.com/lribeiro/feira/internal/model"
)

// CatalogLookup is the engine's view of the product catalog. Implementations
// return (nil, nil) for a clean miss; errors indicate lookup failures, which
// the engine degrades to misses rather than propagating.
type CatalogLookup interface {
	// LookupProductByBarcode performs an exact barcode match. The engine
	// supplies the raw code and, on a miss, retries once with the
	// normalized form.
	LookupProductByBarcode(ctx context.Context, code string) (*model.Product, error)

	// LookupProductByID resolves a product by id, used when a manual
	// association arrives without the full product in hand.
	LookupProductByID(ctx context.Context, id string) (*model.Product, error)

	// FetchPriceHistory returns historical prices for a product.
	// Best-effort: an empty slice on absence or failure, never an error.
	FetchPriceHistory(ctx context.Context, productID string) []float64
}
