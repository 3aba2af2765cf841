// Package match implements the scoring functions used to associate receipt
// lines with catalog products: text normalization, name similarity, price
// plausibility, total consistency, and the weighted ranker that combines them.
package match

import "strings"

// NormalizeBarcode returns the canonical form of a barcode used for the
// single lookup retry after a literal miss: lowercased, whitespace and
// punctuation removed, leading zeros stripped. The transformation is
// idempotent.
func NormalizeBarcode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))

	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') {
			b.WriteRune(r)
		}
	}

	return strings.TrimLeft(b.String(), "0")
}

// NormalizeLabel lowercases and trims a product label for comparison.
// Stored data is never mutated; normalization happens only inside scoring.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
