package extract

import (
	"strings"
)

// Transcript is the parsed form of one capability response.
type Transcript struct {
	TypeLabel    string
	Confidence   string
	ImageQuality string
	Fields       map[string]string
	Observations []string
}

// Section header lines of the transcript wire format.
const (
	lineTypeDocument = "TYPE_DOCUMENT:"
	lineConfidence   = "CONFIANCE_CLASSIFICATION:"
	lineImageQuality = "QUALITE_IMAGE:"
	sectionFields    = "INFORMATIONS_EXTRAITES:"
	sectionNotes     = "OBSERVATIONS:"
)

// ParseTranscript scans the structured transcript line by line: header lines
// set scalar fields, section headers switch the current block, dash-prefixed
// lines accumulate into the fields map or the observations list.
//
// Parsing is purely textual and total: content that matches nothing is
// skipped, and a transcript with no recognizable structure yields the
// defaults (type INCONNU, everything else unknown).
func ParseTranscript(text string) Transcript {
	result := Transcript{
		TypeLabel:    "INCONNU",
		Confidence:   "FAIBLE",
		ImageQuality: "INCONNUE",
		Fields:       make(map[string]string),
	}

	section := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, lineTypeDocument):
			result.TypeLabel = strings.TrimSpace(strings.TrimPrefix(line, lineTypeDocument))
		case strings.HasPrefix(line, lineConfidence):
			result.Confidence = strings.TrimSpace(strings.TrimPrefix(line, lineConfidence))
		case strings.HasPrefix(line, lineImageQuality):
			result.ImageQuality = strings.TrimSpace(strings.TrimPrefix(line, lineImageQuality))
		case line == sectionFields:
			section = "fields"
		case line == sectionNotes:
			section = "notes"
		case strings.HasPrefix(line, "- ") && section == "fields":
			key, value, ok := strings.Cut(line[2:], ":")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			if key != "" && value != "" {
				result.Fields[key] = value
			}
		case strings.HasPrefix(line, "- ") && section == "notes":
			result.Observations = append(result.Observations, strings.TrimSpace(line[2:]))
		}
	}
	return result
}

// Merge combines a normal-pass transcript with a recovery-pass one: for every
// field whose normal value is illegible or partial and whose recovery value
// is not, the recovery value wins; everything else keeps the normal value.
func Merge(normal, recovery Transcript) Transcript {
	merged := normal
	merged.Fields = make(map[string]string, len(normal.Fields))
	for key, value := range normal.Fields {
		merged.Fields[key] = value
	}
	for key, recovered := range recovery.Fields {
		if !unreadable(merged.Fields[key]) {
			continue
		}
		if unreadable(recovered) {
			continue
		}
		merged.Fields[key] = recovered
	}
	return merged
}
