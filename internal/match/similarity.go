package match

import "strings"

// Name similarity tiers. Containment and token overlap are deliberately the
// only signals; character-level edit distance is not used.
const (
	exactMatchScore  = 1.0
	containmentScore = 0.8
	tokenOverlapCap  = 0.7
)

// NameSimilarity scores how alike two product labels are, in [0,1].
// The comparison is order-independent and case-insensitive:
// equal strings score 1.0, substring containment 0.8, and otherwise the
// shared-token ratio scaled into [0, 0.7].
func NameSimilarity(a, b string) float64 {
	na := NormalizeLabel(a)
	nb := NormalizeLabel(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return exactMatchScore
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return containmentScore
	}

	tokensA := tokenSet(na)
	tokensB := tokenSet(nb)

	common := 0
	for tok := range tokensA {
		if tokensB[tok] {
			common++
		}
	}
	if common == 0 {
		return 0
	}

	// Dice coefficient over the token sets, capped below containment.
	return tokenOverlapCap * (2 * float64(common) / float64(len(tokensA)+len(tokensB)))
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
