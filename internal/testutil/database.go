// Package testutil provides test helpers for wiring an in-memory catalog
// database with seeded products and price history.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/lribeiro/feira/internal/model"
	"github.com/lribeiro/feira/internal/storage"
)

// TestDB wraps an in-memory SQLite storage for tests.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database seeded with the given
// products. Cleanup is registered automatically.
func SetupTestDB(t *testing.T, products ...model.Product) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for i := range products {
		if err := store.CreateProduct(ctx, &products[i]); err != nil {
			t.Fatalf("failed to seed product %q: %v", products[i].ID, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedPrices records a series of price observations for a product.
func (db *TestDB) SeedPrices(productID string, prices ...float64) {
	db.t.Helper()

	ctx := context.Background()
	for _, price := range prices {
		if err := db.Storage.RecordPrice(ctx, productID, price, time.Time{}); err != nil {
			db.t.Fatalf("failed to seed price for %q: %v", productID, err)
		}
	}
}
