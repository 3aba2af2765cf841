package model

// MatchScore pairs a receipt line with a candidate product and the
// confidence computed for the pair. Scores are ephemeral: they exist only
// while an assignment decision is being made and are never persisted.
type MatchScore struct {
	Product   Product
	LineIndex int
	Score     float64
}
