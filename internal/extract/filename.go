package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

// Keyword table for the filename fallback classifier. Checked in order so a
// filename naming several keywords gets the most specific match first.
var filenameKeywords = []struct {
	keyword string
	docType constants.DocumentType
}{
	{"cin", constants.NationalID},
	{"identite", constants.NationalID},
	{"piece", constants.NationalID},
	{"passeport", constants.Passport},
	{"domicile", constants.UtilityBill},
	{"justificatif", constants.UtilityBill},
	{"electricite", constants.UtilityBill},
	{"one", constants.UtilityBill},
	{"redal", constants.UtilityBill},
	{"amendis", constants.UtilityBill},
	{"bancaire", constants.BankStatement},
	{"releve", constants.BankStatement},
	{"salaire", constants.Payslip},
	{"bulletin", constants.Payslip},
	{"paie", constants.Payslip},
}

// NAME_FIRSTNAME style filename patterns.
var filenameNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([a-z]+)_([a-z]+)_`),
	regexp.MustCompile(`_([a-z]+)_([a-z]+)`),
	regexp.MustCompile(`([a-z]+)-([a-z]+)`),
}

// ClassifyFilename is the lightweight fallback classifier used whenever the
// vision capability is entirely unavailable: keyword matching on the source
// filename plus name/first-name pattern extraction.
func ClassifyFilename(sourcePath string) entity.DocumentRecord {
	name := strings.ToLower(filepath.Base(sourcePath))

	rec := entity.DocumentRecord{
		SourcePath:     sourcePath,
		Type:           constants.OtherDocument,
		RawTypeLabel:   "INCONNU",
		TypeConfidence: constants.ConfidenceLow,
		QualityScore:   0,
		QualityTier:    constants.TierLow,
		Mode:           constants.ModeFilenameOnly,
	}

	for _, entry := range filenameKeywords {
		if strings.Contains(name, entry.keyword) {
			rec.Type = entry.docType
			rec.RawTypeLabel = ""
			break
		}
	}

	for _, pattern := range filenameNamePatterns {
		if m := pattern.FindStringSubmatch(name); m != nil {
			rec.FullName = strings.ToUpper(m[1])
			rec.FirstName = capitalize(m[2])
			break
		}
	}

	return rec
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
