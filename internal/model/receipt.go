// Package model defines the core domain models used throughout the application.
package model

// ReceiptLine represents one purchased item parsed from a fiscal receipt,
// prior to (or after) being linked to a catalog product.
type ReceiptLine struct {
	OriginalLabel string // raw label from the receipt source; never edited
	Barcode       string // immutable once set by the source; may be empty
	Unit          string
	ProductID     string
	ProductName   string
	Quantity      float64
	UnitPrice     float64
	UnitDiscount  float64
	Associated    bool
}

// Associate links the line to a catalog product.
// Associated is kept in lockstep with ProductID; all association changes
// must go through Associate and ClearAssociation.
func (l *ReceiptLine) Associate(p Product) {
	l.ProductID = p.ID
	l.ProductName = p.Name
	l.Associated = true
}

// ClearAssociation removes any product link from the line.
func (l *ReceiptLine) ClearAssociation() {
	l.ProductID = ""
	l.ProductName = ""
	l.Associated = false
}

// Subtotal returns the line's contribution to the purchase total:
// (unit price - unit discount) * quantity. Negative results are passed
// through unchanged.
func (l *ReceiptLine) Subtotal() float64 {
	return (l.UnitPrice - l.UnitDiscount) * l.Quantity
}
