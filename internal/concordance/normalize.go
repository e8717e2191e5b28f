package concordance

import (
	"strings"
	"unicode"
)

// accentFold maps the accented Latin letters seen in French-language scans
// to their base letter. Anything outside the table passes through.
var accentFold = map[rune]rune{
	'à': 'a', 'â': 'a', 'ä': 'a', 'á': 'a', 'ã': 'a', 'å': 'a',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n',
}

// NormalizeText prepares free text for OCR-tolerant comparison: lowercase,
// fold accents, turn punctuation into spaces, collapse whitespace runs.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if folded, ok := accentFold[r]; ok {
			r = folded
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeNumber strips the separators people put inside identifiers:
// spaces, hyphens, periods. "AB 12-34.56" and "AB123456" compare equal.
func NormalizeNumber(number string) string {
	if number == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '.':
			return -1
		}
		return r
	}, number)
}
