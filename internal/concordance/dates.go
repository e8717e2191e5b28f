package concordance

import (
	"strings"
	"time"
)

// Date layouts accepted on issue-date fields, tried in priority order.
// Day-first layouts come first because that is how the documents are dated.
var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"02/01/06",
	"02-01-06",
	"02.01.06",
}

// ParseFlexibleDate tries each known layout in order and returns the first
// hit. Unparseable input yields ok=false, never an error: a date the models
// mangled is simply no signal for the temporal check.
func ParseFlexibleDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
