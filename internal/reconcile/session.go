package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lribeiro/feira/internal/common"
	"github.com/lribeiro/feira/internal/match"
	"github.com/lribeiro/feira/internal/model"
)

// LineField identifies an editable numeric field of a receipt line.
type LineField string

// Editable line fields.
const (
	FieldQuantity     LineField = "quantity"
	FieldUnitPrice    LineField = "unitPrice"
	FieldUnitDiscount LineField = "unitDiscount"
)

// Totals is the result of a totals computation over the session.
type Totals struct {
	Subtotal         float64
	PurchaseDiscount float64
	Total            float64
}

// Session holds the working set of receipt lines being reconciled against
// the catalog. It is the sole owner of line state: callers mutate lines only
// through Session operations, which preserve the invariant that a line is
// associated exactly when its product id is non-empty.
//
// A Session is not safe for concurrent mutation; it is driven by a single
// caller (the interactive UI) and discarded on cancel.
type Session struct {
	lookup           CatalogLookup
	lines            []model.ReceiptLine
	purchaseDiscount float64
}

// NewSession seeds a session from parsed receipt lines and runs the barcode
// fast path for every line that carries a code, so the caller sees a
// partially pre-associated session from the start.
func NewSession(ctx context.Context, lookup CatalogLookup, lines []model.ReceiptLine) *Session {
	s := &Session{
		lookup: lookup,
		lines:  make([]model.ReceiptLine, len(lines)),
	}
	copy(s.lines, lines)

	preAssociated := 0
	for i := range s.lines {
		if s.lines[i].Barcode == "" {
			continue
		}
		if s.tryBarcodeAssociate(ctx, i) {
			preAssociated++
		}
	}

	slog.Info("Reconciliation session opened",
		"lines", len(s.lines),
		"pre_associated", preAssociated)

	return s
}

// Lines returns a copy of the session's lines for rendering. Mutating the
// returned slice has no effect on the session.
func (s *Session) Lines() []model.ReceiptLine {
	out := make([]model.ReceiptLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line returns a copy of a single line.
func (s *Session) Line(index int) (model.ReceiptLine, error) {
	if err := s.checkIndex(index); err != nil {
		return model.ReceiptLine{}, err
	}
	return s.lines[index], nil
}

// Len returns the number of lines currently in the session.
func (s *Session) Len() int {
	return len(s.lines)
}

// TryBarcodeAssociate attempts the barcode fast path for one line: an exact
// lookup by the line's raw code, retried once with the normalized form.
// A hit associates the line immediately, bypassing scoring. A miss or a
// lookup failure leaves the line untouched; neither is an error.
func (s *Session) TryBarcodeAssociate(ctx context.Context, index int) (bool, error) {
	if err := s.checkIndex(index); err != nil {
		return false, err
	}
	if s.lines[index].Barcode == "" {
		return false, nil
	}
	return s.tryBarcodeAssociate(ctx, index), nil
}

func (s *Session) tryBarcodeAssociate(ctx context.Context, index int) bool {
	product := s.resolveBarcode(ctx, s.lines[index].Barcode)
	if product == nil {
		return false
	}

	s.lines[index].Associate(*product)
	slog.Debug("Line associated via barcode fast path",
		"line", index,
		"barcode", s.lines[index].Barcode,
		"product_id", product.ID)
	return true
}

// resolveBarcode looks a product up by the raw code and, on a clean miss,
// retries once with the normalized form. Lookup failures degrade to a miss.
func (s *Session) resolveBarcode(ctx context.Context, code string) *model.Product {
	product, err := s.lookup.LookupProductByBarcode(ctx, code)
	if err != nil {
		slog.Warn("Barcode lookup failed", "barcode", code, "error", err)
		return nil
	}
	if product != nil {
		return product
	}

	normalized := match.NormalizeBarcode(code)
	if normalized == "" || normalized == code {
		return nil
	}

	product, err = s.lookup.LookupProductByBarcode(ctx, normalized)
	if err != nil {
		slog.Warn("Normalized barcode lookup failed",
			"barcode", normalized, "error", err)
		return nil
	}
	return product
}

// SetAssociation manually associates a line with a product, overriding any
// automatic result. A nil product clears the association.
func (s *Session) SetAssociation(index int, product *model.Product) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	if product == nil {
		s.lines[index].ClearAssociation()
		return nil
	}

	s.lines[index].Associate(*product)
	return nil
}

// SetAssociationByID manually associates a line given only a product id.
func (s *Session) SetAssociationByID(ctx context.Context, index int, productID string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	product, err := s.lookup.LookupProductByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to look up product %q: %w", productID, err)
	}
	if product == nil {
		return fmt.Errorf("%w: product %q", common.ErrNotFound, productID)
	}

	s.lines[index].Associate(*product)
	return nil
}

// EditLine updates one numeric field of a line. Values that do not parse as
// numbers are coerced to zero. Editing never changes the association.
func (s *Session) EditLine(index int, field LineField, value string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	parsed := coerceNumber(value)

	switch field {
	case FieldQuantity:
		s.lines[index].Quantity = parsed
	case FieldUnitPrice:
		s.lines[index].UnitPrice = parsed
	case FieldUnitDiscount:
		s.lines[index].UnitDiscount = parsed
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownLineField, field)
	}

	return nil
}

// RemoveLine deletes a line from the session. Indices of subsequent lines
// shift down by one.
func (s *Session) RemoveLine(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	return nil
}

// SetPurchaseDiscount sets the purchase-level discount, distinct from any
// per-line discount.
func (s *Session) SetPurchaseDiscount(value float64) {
	s.purchaseDiscount = value
}

// PurchaseDiscount returns the current purchase-level discount.
func (s *Session) PurchaseDiscount() float64 {
	return s.purchaseDiscount
}

// ComputeTotals returns the running totals for the session. Pure with
// respect to session state.
func (s *Session) ComputeTotals() Totals {
	var subtotal float64
	for i := range s.lines {
		subtotal += s.lines[i].Subtotal()
	}

	return Totals{
		Subtotal:         subtotal,
		PurchaseDiscount: s.purchaseDiscount,
		Total:            subtotal - s.purchaseDiscount,
	}
}

// unassociatedIndices returns the indices of lines without an association.
func (s *Session) unassociatedIndices() []int {
	var indices []int
	for i := range s.lines {
		if !s.lines[i].Associated {
			indices = append(indices, i)
		}
	}
	return indices
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.lines) {
		return fmt.Errorf("%w: %d (have %d lines)", common.ErrLineOutOfRange, index, len(s.lines))
	}
	return nil
}

// coerceNumber parses a numeric field, treating malformed input as zero so
// the scorers stay total.
func coerceNumber(value string) float64 {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}
