package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lribeiro/feira/internal/model"
	"github.com/lribeiro/feira/internal/service"
)

// SavePurchase persists a confirmed purchase atomically: the purchase row,
// its items, and one price observation per item. Either everything commits
// or nothing does.
func (s *SQLiteStorage) SavePurchase(ctx context.Context, purchase *model.ConfirmedPurchase) (*model.Purchase, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, fmt.Errorf("%w: purchase", ErrNilParameter)
	}
	if err := purchase.Validate(); err != nil {
		return nil, fmt.Errorf("invalid purchase: %w", err)
	}

	id := uuid.NewString()
	createdAt := time.Now().UTC()
	total := purchase.Total()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO purchases (id, purchase_discount, total, created_at)
		VALUES (?, ?, ?, ?)`,
		id, purchase.PurchaseDiscount, total, createdAt); err != nil {
		return nil, fmt.Errorf("failed to insert purchase: %w", err)
	}

	for i := range purchase.Items {
		item := &purchase.Items[i]

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO purchase_items (purchase_id, product_id, product_name, quantity, price, unit_discount)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, item.ProductID, item.ProductName, item.Quantity, item.Price, item.UnitDiscount); err != nil {
			return nil, fmt.Errorf("failed to insert purchase item %d: %w", i, err)
		}

		// Each confirmed price feeds the history used by future matching.
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO price_history (product_id, price, recorded_at)
			VALUES (?, ?, ?)`,
			item.ProductID, item.Price, createdAt); err != nil {
			return nil, fmt.Errorf("failed to record price for item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	slog.Info("Purchase saved",
		"id", id,
		"items", len(purchase.Items),
		"total", total)

	saved := &model.Purchase{
		ID:               id,
		CreatedAt:        createdAt,
		Items:            purchase.Items,
		PurchaseDiscount: purchase.PurchaseDiscount,
		Total:            total,
	}
	return saved, nil
}

// GetPurchases returns persisted purchases, newest first.
func (s *SQLiteStorage) GetPurchases(ctx context.Context, filter service.PurchaseFilter) ([]model.Purchase, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, purchase_discount, total, created_at
		FROM purchases`
	var args []any
	var clauses []string

	if filter.StartDate != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, *filter.EndDate)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(&p.ID, &p.PurchaseDiscount, &p.Total, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	for i := range purchases {
		items, err := s.getPurchaseItems(ctx, purchases[i].ID)
		if err != nil {
			return nil, err
		}
		purchases[i].Items = items
	}

	return purchases, nil
}

func (s *SQLiteStorage) getPurchaseItems(ctx context.Context, purchaseID string) ([]model.PurchaseItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, price, unit_discount
		FROM purchase_items
		WHERE purchase_id = ?
		ORDER BY id`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase items: %w", err)
	}
	defer rows.Close()

	var items []model.PurchaseItem
	for rows.Next() {
		var item model.PurchaseItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Price, &item.UnitDiscount); err != nil {
			return nil, fmt.Errorf("failed to scan purchase item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase items: %w", err)
	}

	return items, nil
}
