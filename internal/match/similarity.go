// Package match scores how well a catalog track matches a track described by
// another service.
package match

import "strings"

// Similarity returns the word-overlap similarity of a and b in [0, 1]. Both
// are lowercased and trimmed; equal strings score 1, otherwise the result is
// |A ∩ B| / |A ∪ B| over their whitespace-separated word sets, or 0 when both
// sets are empty. Two empty strings therefore score 0, not 1: a track with no
// artists never fully matches a hit with no artist.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b && a != "" {
		return 1.0
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)

	common := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			common++
		}
	}
	total := len(wordsA) + len(wordsB) - common
	if total == 0 {
		return 0
	}
	return float64(common) / float64(total)
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
