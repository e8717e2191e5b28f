package concordance

import "strings"

// Tolerance thresholds for the Jaccard token-set similarity. Addresses get a
// looser threshold because their incidental formatting noise (street
// abbreviations, reordered components) is higher than that of name fields.
const (
	ToleranceDefault = 0.8
	ToleranceAddress = 0.7
)

// FuzzyEqual reports whether two strings denote the same value under OCR
// noise: equal after normalization, or Jaccard similarity of their word sets
// at or above the tolerance. Empty input on either side is "no signal" and
// never matches.
func FuzzyEqual(a, b string, tolerance float64) bool {
	if a == "" || b == "" {
		return false
	}

	normA := NormalizeText(a)
	normB := NormalizeText(b)
	if normA == normB {
		return normA != ""
	}
	return jaccard(normA, normB) >= tolerance
}

func jaccard(normA, normB string) float64 {
	setA := tokenSet(normA)
	setB := tokenSet(normB)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Fields(normalized) {
		set[token] = struct{}{}
	}
	return set
}
