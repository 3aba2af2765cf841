package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/lribeiro/feira/internal/common"
	"github.com/lribeiro/feira/internal/model"
)

// CreateProduct inserts a new catalog product.
func (s *SQLiteStorage) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: product", ErrNilParameter)
	}
	if err := product.Validate(); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}

	createdAt := product.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, barcode, unit, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Barcode, product.Unit, createdAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: product %q", common.ErrDuplicateEntry, product.ID)
		}
		return fmt.Errorf("failed to insert product %q: %w", product.ID, err)
	}

	slog.Debug("created product", "id", product.ID, "name", product.Name)
	return nil
}

// GetProductByID returns a product by id, or (nil, nil) if absent.
func (s *SQLiteStorage) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	return s.queryProduct(ctx, `
		SELECT id, name, barcode, unit, created_at
		FROM products
		WHERE id = ?`, id)
}

// GetProductByBarcode returns the product with an exactly matching barcode,
// or (nil, nil) if absent. No normalization happens here; the engine owns
// the retry policy.
func (s *SQLiteStorage) GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(barcode, "barcode"); err != nil {
		return nil, err
	}

	return s.queryProduct(ctx, `
		SELECT id, name, barcode, unit, created_at
		FROM products
		WHERE barcode = ?`, barcode)
}

func (s *SQLiteStorage) queryProduct(ctx context.Context, query string, arg any) (*model.Product, error) {
	var (
		product model.Product
		barcode sql.NullString
		unit    sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&product.ID, &product.Name, &barcode, &unit, &product.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	product.Barcode = barcode.String
	product.Unit = unit.String
	return &product, nil
}

// GetAllProducts returns the full catalog ordered by name.
func (s *SQLiteStorage) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, barcode, unit, created_at
		FROM products
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var (
			product model.Product
			barcode sql.NullString
			unit    sql.NullString
		)
		if err := rows.Scan(&product.ID, &product.Name, &barcode, &unit, &product.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		product.Barcode = barcode.String
		product.Unit = unit.String
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	slog.Debug("retrieved products", "count", len(products))
	return products, nil
}

// RecordPrice appends one price observation to a product's history.
func (s *SQLiteStorage) RecordPrice(ctx context.Context, productID string, price float64, recordedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(productID, "productID"); err != nil {
		return err
	}

	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO price_history (product_id, price, recorded_at)
		SELECT id, ?, ? FROM products WHERE id = ?`,
		price, recordedAt, productID)
	if err != nil {
		return fmt.Errorf("failed to record price for %q: %w", productID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check price insert: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %q", common.ErrNotFound, productID)
	}

	return nil
}

// GetPriceHistory returns a product's recorded prices, oldest first.
// An unknown product yields an empty history, not an error.
func (s *SQLiteStorage) GetPriceHistory(ctx context.Context, productID string) ([]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(productID, "productID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT price
		FROM price_history
		WHERE product_id = ?
		ORDER BY recorded_at, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var history []float64
	for rows.Next() {
		var price float64
		if err := rows.Scan(&price); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		history = append(history, price)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}

	return history, nil
}
