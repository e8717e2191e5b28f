package constants

import "strings"

// Sentinel markers the extraction model writes in place of a normal value.
// They are literal field values, not metadata: the quality scorer and the
// concordance engine must recognize them wherever a string field may appear.
const (
	MarkerIllegible = "ILLISIBLE"
	MarkerPartial   = "PARTIEL"
	MarkerUncertain = "INCERTAIN"
)

// HasMarker reports whether v carries any sentinel marker
// (ILLISIBLE, "PARTIEL: ...", "INCERTAIN: ...").
func HasMarker(v string) bool {
	upper := strings.ToUpper(v)
	return strings.Contains(upper, MarkerIllegible) ||
		strings.Contains(upper, MarkerPartial) ||
		strings.Contains(upper, MarkerUncertain)
}

// IsUnreadable reports whether v is illegible or only partially read.
// Used by the recovery merge: these are the values a second pass may replace.
func IsUnreadable(v string) bool {
	upper := strings.ToUpper(v)
	return strings.Contains(upper, MarkerIllegible) ||
		strings.Contains(upper, MarkerPartial)
}

// Usable reports whether v carries actual signal: non-empty and free of
// sentinel markers. Fields failing this test are excluded from concordance
// grouping and coverage counts.
func Usable(v string) bool {
	return strings.TrimSpace(v) != "" && !HasMarker(v)
}
