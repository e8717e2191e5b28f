package extract

import (
	"fmt"
	"strings"

	"github.com/ismoky07/Octroi-Credit/constants"
)

// Assessment summarizes the quality of one extraction pass.
type Assessment struct {
	Score           int
	Tier            constants.QualityTier
	FlaggedFields   int
	Recommendations []string
}

// Fields whose absence carries an extra penalty.
var essentialFields = []string{"nom_complet", "prenom"}

// EvaluateQuality scores a parsed transcript from 100 down:
// -30/-15 for low/medium self-reported image quality, -25/-10 for low/medium
// classification confidence, -12 per sentinel-marked field, -15 per missing
// essential field. Clamped to [0,100] and mapped to a tier.
func EvaluateQuality(t Transcript) Assessment {
	score := 100
	var recs []string

	switch strings.ToUpper(t.ImageQuality) {
	case constants.ImageQualityLow:
		score -= 30
		recs = append(recs, "Ameliorer la qualite de l'image")
	case constants.ImageQualityMedium:
		score -= 15
	}

	switch constants.CanonicalConfidence(t.Confidence) {
	case constants.ConfidenceLow:
		score -= 25
		recs = append(recs, "Verifier le type de document")
	case constants.ConfidenceMedium:
		score -= 10
	}

	flagged := 0
	for _, value := range t.Fields {
		if constants.HasMarker(value) {
			flagged++
		}
	}
	if flagged > 0 {
		score -= flagged * 12
		recs = append(recs, fmt.Sprintf("%d champ(s) problematique(s)", flagged))
	}

	var missing []string
	for _, field := range essentialFields {
		if t.Fields[field] == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		score -= len(missing) * 15
		recs = append(recs, "Champs essentiels manquants: "+strings.Join(missing, ", "))
	}

	score = clamp(score)
	return Assessment{
		Score:           score,
		Tier:            constants.TierForScore(score),
		FlaggedFields:   flagged,
		Recommendations: recs,
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func unreadable(v string) bool {
	return constants.IsUnreadable(v)
}
