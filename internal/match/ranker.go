package match

import "github.com/lribeiro/feira/internal/model"

// nameWeight scales the name similarity signal; the price and consistency
// scorers already embed their own weights, so the three sum to 1.0.
const nameWeight = 0.4

// ConfidenceFloor is the minimum score an automatic association must exceed.
// The threshold and the signal weights are policy parameters: existing users
// depend on them, so they are preserved rather than tuned.
const ConfidenceFloor = 0.3

// Score combines name similarity, price plausibility, and total consistency
// into one confidence score in [0,1] for a (line, product) pair.
func Score(line model.ReceiptLine, product model.Product, history []float64) float64 {
	return nameWeight*NameSimilarity(line.OriginalLabel, product.Name) +
		PricePlausibility(line.UnitPrice, history) +
		TotalConsistency(line)
}
