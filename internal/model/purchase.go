package model

import (
	"fmt"
	"time"
)

// PurchaseItem is one confirmed line of a purchase, stripped of the
// reconciliation bookkeeping fields (original label, association flag).
type PurchaseItem struct {
	ProductID    string
	ProductName  string
	Quantity     float64
	Price        float64
	UnitDiscount float64
}

// Subtotal returns the item's contribution to the purchase total.
func (i *PurchaseItem) Subtotal() float64 {
	return (i.Price - i.UnitDiscount) * i.Quantity
}

// ConfirmedPurchase is the payload produced by a successful confirmation,
// consumed by the purchase persistence layer.
type ConfirmedPurchase struct {
	Items            []PurchaseItem
	PurchaseDiscount float64
}

// Total returns the sum of item subtotals minus the purchase-level discount.
func (p *ConfirmedPurchase) Total() float64 {
	var subtotal float64
	for i := range p.Items {
		subtotal += p.Items[i].Subtotal()
	}
	return subtotal - p.PurchaseDiscount
}

// Validate checks that the purchase can be persisted.
func (p *ConfirmedPurchase) Validate() error {
	if len(p.Items) == 0 {
		return fmt.Errorf("purchase must contain at least one item")
	}
	for i := range p.Items {
		if p.Items[i].ProductID == "" {
			return fmt.Errorf("purchase item %d has no product id", i)
		}
	}
	return nil
}

// Purchase is a persisted purchase record.
type Purchase struct {
	CreatedAt        time.Time
	ID               string
	Items            []PurchaseItem
	PurchaseDiscount float64
	Total            float64
}
