package match

import (
	"math"

	"github.com/lribeiro/feira/internal/model"
)

const (
	// plausibilityWeight is the full contribution of the price signal.
	plausibilityWeight = 0.35
	// consistencyWeight is the full contribution of the arithmetic signal.
	consistencyWeight = 0.25

	// noHistoryScore is awarded when a product has no recorded prices but
	// the line price at least looks like a plausible retail price.
	noHistoryScore    = 0.15
	maxPlausiblePrice = 1000
)

// PricePlausibility scores how consistent a line's unit price is with a
// product's price history, in [0, plausibilityWeight]. With no history the
// score falls back to a small constant for prices in a sane retail range.
func PricePlausibility(linePrice float64, history []float64) float64 {
	if len(history) == 0 {
		if linePrice > 0 && linePrice < maxPlausiblePrice {
			return noHistoryScore
		}
		return 0
	}

	minPrice := history[0]
	maxPrice := history[0]
	var sum float64
	for _, p := range history {
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
		sum += p
	}

	if linePrice >= minPrice && linePrice <= maxPrice {
		return plausibilityWeight
	}

	avg := sum / float64(len(history))
	if avg <= 0 {
		return 0
	}

	deviation := math.Min(math.Abs(linePrice-avg)/avg, 1)
	return plausibilityWeight * (1 - deviation)
}

// TotalConsistency scores whether a line's discounted total agrees with its
// own unit price and quantity, in [0, consistencyWeight]. A line whose
// numbers disagree wildly is likely malformed input and scores near zero.
func TotalConsistency(line model.ReceiptLine) float64 {
	expected := line.UnitPrice * line.Quantity
	actual := (line.UnitPrice - line.UnitDiscount) * line.Quantity

	diff := math.Abs(expected - actual)
	if diff < 0.01 {
		return consistencyWeight
	}
	if expected <= 0 {
		return 0
	}

	deviation := math.Min(diff/expected, 1)
	return consistencyWeight * (1 - deviation)
}
