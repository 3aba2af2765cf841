// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/lribeiro/feira/internal/model"
)

// PurchaseFilter defines filtering options for purchase queries.
type PurchaseFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Product catalog operations
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)

	// Price history operations
	RecordPrice(ctx context.Context, productID string, price float64, recordedAt time.Time) error
	GetPriceHistory(ctx context.Context, productID string) ([]float64, error)

	// Purchase operations
	SavePurchase(ctx context.Context, purchase *model.ConfirmedPurchase) (*model.Purchase, error)
	GetPurchases(ctx context.Context, filter PurchaseFilter) ([]model.Purchase, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
