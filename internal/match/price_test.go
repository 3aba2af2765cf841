package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lribeiro/feira/internal/model"
)

func TestPricePlausibility(t *testing.T) {
	tests := []struct {
		name    string
		history []float64
		price   float64
		want    float64
	}{
		{
			name:    "no history, plausible retail price",
			history: nil,
			price:   7.50,
			want:    0.15,
		},
		{
			name:    "no history, zero price",
			history: nil,
			price:   0,
			want:    0,
		},
		{
			name:    "no history, absurd price",
			history: nil,
			price:   1000,
			want:    0,
		},
		{
			name:    "price inside historical range",
			history: []float64{5.00, 7.00, 9.00},
			price:   7.50,
			want:    0.35,
		},
		{
			name:    "price at range boundary",
			history: []float64{5.00, 9.00},
			price:   9.00,
			want:    0.35,
		},
		{
			name:    "price above range, near average",
			history: []float64{4.00, 6.00}, // avg 5.00
			price:   7.50,
			// deviation 2.5/5.0 = 0.5 -> 0.35 * 0.5
			want: 0.175,
		},
		{
			name:    "price wildly above average",
			history: []float64{4.00, 6.00},
			price:   50.00,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PricePlausibility(tt.price, tt.history)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTotalConsistency(t *testing.T) {
	tests := []struct {
		name string
		line model.ReceiptLine
		want float64
	}{
		{
			name: "no discount means totals agree",
			line: model.ReceiptLine{Quantity: 2, UnitPrice: 7.00},
			want: 0.25,
		},
		{
			name: "discount shifts actual below expected",
			line: model.ReceiptLine{Quantity: 2, UnitPrice: 7.00, UnitDiscount: 1.00},
			// expected 14, actual 12, deviation 2/14
			want: 0.25 * (1 - 2.0/14.0),
		},
		{
			name: "discount exceeding price still scored",
			line: model.ReceiptLine{Quantity: 1, UnitPrice: 2.00, UnitDiscount: 5.00},
			// expected 2, actual -3, deviation capped at 1
			want: 0,
		},
		{
			name: "zero quantity line",
			line: model.ReceiptLine{Quantity: 0, UnitPrice: 7.00, UnitDiscount: 1.00},
			want: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalConsistency(tt.line)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScorersAreTotal(t *testing.T) {
	// Malformed numeric fields are coerced to zero upstream; the scorers
	// must still never panic or return out-of-range values for junk input.
	lines := []model.ReceiptLine{
		{},
		{Quantity: -1, UnitPrice: -5, UnitDiscount: -2},
		{Quantity: 1e9, UnitPrice: 1e9},
	}

	for _, line := range lines {
		c := TotalConsistency(line)
		assert.GreaterOrEqual(t, c, 0.0)
		assert.LessOrEqual(t, c, 0.25)

		p := PricePlausibility(line.UnitPrice, []float64{0, 0})
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 0.35)
	}
}
