// Package parser ingests the raw line items produced by the external
// receipt extraction service and converts them into receipt lines ready for
// reconciliation. Text extraction and OCR happen upstream; this package only
// consumes their JSON output.
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/lribeiro/feira/internal/model"
)

// RawLine mirrors the wire shape emitted by the receipt extraction service.
// Numeric fields arrive as arbitrary JSON values and are coerced to numbers,
// with anything malformed treated as zero.
type RawLine struct {
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Code       string          `json:"code,omitempty"`
	Quantity   json.RawMessage `json:"quantity"`
	UnitPrice  json.RawMessage `json:"unitPrice"`
	TotalPrice json.RawMessage `json:"totalPrice"`
	Discount   json.RawMessage `json:"discount,omitempty"`
}

// Receipt is the top-level payload from the extraction service.
type Receipt struct {
	Items []RawLine `json:"items"`
}

// Parser converts extraction payloads into receipt lines.
type Parser struct{}

// NewParser creates a new receipt payload parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads a receipt extraction payload and returns the receipt
// lines for reconciliation. The incoming discount is the line's total
// discount; the per-unit discount is derived here as discount/quantity,
// defaulting to zero when the quantity is not positive.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.ReceiptLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt payload: %w", err)
	}

	var receipt Receipt
	if err := json.Unmarshal(content, &receipt); err != nil {
		// Some extraction versions emit the bare item array.
		if arrErr := json.Unmarshal(content, &receipt.Items); arrErr != nil {
			return nil, fmt.Errorf("failed to parse receipt payload: %w", err)
		}
	}

	lines := make([]model.ReceiptLine, 0, len(receipt.Items))
	for _, raw := range receipt.Items {
		lines = append(lines, p.convertLine(raw))
	}

	slog.Info("Parsed receipt payload", "lines", len(lines))
	return lines, nil
}

func (p *Parser) convertLine(raw RawLine) model.ReceiptLine {
	quantity := coerceNumber(raw.Quantity)
	discount := coerceNumber(raw.Discount)

	unitDiscount := 0.0
	if quantity > 0 {
		unitDiscount = discount / quantity
	}

	return model.ReceiptLine{
		OriginalLabel: raw.Name,
		Barcode:       raw.Code,
		Unit:          raw.Unit,
		Quantity:      quantity,
		UnitPrice:     coerceNumber(raw.UnitPrice),
		UnitDiscount:  unitDiscount,
	}
}

// coerceNumber extracts a float from a raw JSON value, accepting numbers and
// numeric strings. Malformed values coerce to zero rather than failing the
// whole receipt.
func coerceNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if _, scanErr := fmt.Sscanf(s, "%f", &n); scanErr == nil {
			return n
		}
	}

	return 0
}
