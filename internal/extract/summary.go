package extract

import (
	"fmt"

	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

// Summarize computes batch statistics over extracted records. A document
// counts as OK when its tier is neither FAIBLE nor an error record.
func Summarize(bundle entity.CaseBundle) entity.ExtractionSummary {
	s := entity.ExtractionSummary{TotalDocuments: len(bundle)}

	lowQuality := 0
	for _, rec := range bundle {
		switch {
		case rec.Type == constants.ErrorDocument:
			s.InError++
		case rec.QualityTier == constants.TierLow:
			lowQuality++
		default:
			s.DocumentsOK++
		}
		if rec.QualityTier == constants.TierExcellent && rec.Type != constants.ErrorDocument {
			s.Excellent++
		}
		if rec.Mode == constants.ModeRecovery {
			s.InRecovery++
		}
	}

	s.SuccessRate = rate(s.DocumentsOK, s.TotalDocuments)
	s.ExcellenceRate = rate(s.Excellent, s.TotalDocuments)

	if lowQuality > 0 {
		s.Recommendations = append(s.Recommendations,
			fmt.Sprintf("%d document(s) de faible qualite detecte(s)", lowQuality),
			"Conseil: Ameliorer l'eclairage et la resolution des images")
	}
	if s.InError > 0 {
		s.Recommendations = append(s.Recommendations,
			fmt.Sprintf("%d document(s) en erreur", s.InError),
			"Conseil: Verifier le format et l'accessibilite des fichiers")
	}
	return s
}

func rate(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}
