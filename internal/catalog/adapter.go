// Package catalog adapts the persistence layer to the reconciliation
// engine's CatalogLookup interface, adding retry on transient failures and
// best-effort degradation for price history.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lribeiro/feira/internal/common"
	"github.com/lribeiro/feira/internal/model"
	"github.com/lribeiro/feira/internal/service"
)

// Adapter implements reconcile.CatalogLookup on top of service.Storage.
type Adapter struct {
	storage service.Storage
	retry   service.RetryOptions
}

// NewAdapter creates a catalog adapter backed by the given storage.
func NewAdapter(storage service.Storage) *Adapter {
	return &Adapter{
		storage: storage,
		retry: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 50 * time.Millisecond,
		},
	}
}

// LookupProductByBarcode performs an exact barcode lookup.
// Returns (nil, nil) on a clean miss.
func (a *Adapter) LookupProductByBarcode(ctx context.Context, code string) (*model.Product, error) {
	if code == "" {
		return nil, nil
	}

	var product *model.Product
	err := common.WithRetry(ctx, func() error {
		var lookupErr error
		product, lookupErr = a.storage.GetProductByBarcode(ctx, code)
		return lookupErr
	}, a.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: barcode %q: %v", common.ErrLookupFailed, code, err)
	}

	return product, nil
}

// LookupProductByID resolves a product by its id.
// Returns (nil, nil) when no such product exists.
func (a *Adapter) LookupProductByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, nil
	}

	var product *model.Product
	err := common.WithRetry(ctx, func() error {
		var lookupErr error
		product, lookupErr = a.storage.GetProductByID(ctx, id)
		return lookupErr
	}, a.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: product %q: %v", common.ErrLookupFailed, id, err)
	}

	return product, nil
}

// FetchPriceHistory returns the recorded prices for a product. Failures
// degrade to an empty history so scoring proceeds without the price signal.
func (a *Adapter) FetchPriceHistory(ctx context.Context, productID string) []float64 {
	var history []float64
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		history, fetchErr = a.storage.GetPriceHistory(ctx, productID)
		return fetchErr
	}, a.retry)
	if err != nil {
		slog.Warn("Price history fetch failed, scoring without history",
			"product_id", productID,
			"error", err)
		return nil
	}

	return history
}
