package extract

import (
	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

// Synonym priority per canonical field: first non-empty wins. The extraction
// prompt names fields differently per document type (nom_complet on a CIN,
// nom_employe on a payslip, nom_titulaire on a bill or statement).
var (
	fullNameKeys  = []string{"nom_complet", "nom_employe", "nom_titulaire"}
	firstNameKeys = []string{"prenom", "prenom_employe"}
	addressKeys   = []string{"adresse_complete", "adresse_facturation"}
	numberKeys    = []string{"numero_cin", "numero_passeport", "numero_client", "numero_compte"}
)

// Keys removed from the extra-fields tail once mapped. Identifier synonyms
// stay in ExtraFields so type-aware lookups (NationalID, BankAccount) still
// see which identifier the document actually carried.
var consumedKeys = map[string]struct{}{
	"nom_complet":         {},
	"nom_employe":         {},
	"nom_titulaire":       {},
	"prenom":              {},
	"prenom_employe":      {},
	"date_naissance":      {},
	"date_emission":       {},
	"date_expiration":     {},
	"adresse_complete":    {},
	"adresse_facturation": {},
}

// ToRecord maps a parsed transcript onto the canonical DocumentRecord shape.
func ToRecord(sourcePath string, t Transcript, q Assessment, mode constants.ExtractionMode) entity.DocumentRecord {
	docType, recognized := constants.CanonicalType(t.TypeLabel)

	rec := entity.DocumentRecord{
		SourcePath:     sourcePath,
		Type:           docType,
		TypeConfidence: constants.CanonicalConfidence(t.Confidence),
		ImageQuality:   t.ImageQuality,
		FullName:       firstOf(t.Fields, fullNameKeys),
		FirstName:      firstOf(t.Fields, firstNameKeys),
		BirthDate:      t.Fields["date_naissance"],
		DocumentNumber: firstOf(t.Fields, numberKeys),
		Address:        firstOf(t.Fields, addressKeys),
		IssueDate:      t.Fields["date_emission"],
		ExpiryDate:     t.Fields["date_expiration"],
		Observations:   append([]string(nil), t.Observations...),
		QualityScore:   q.Score,
		QualityTier:    q.Tier,
		Mode:           mode,
	}
	if !recognized {
		rec.RawTypeLabel = t.TypeLabel
	}

	extras := make(map[string]string)
	for key, value := range t.Fields {
		if _, consumed := consumedKeys[key]; consumed {
			continue
		}
		extras[key] = value
	}
	if len(extras) > 0 {
		rec.ExtraFields = extras
	}
	return rec
}

// ErrorRecord builds the minimal record produced when the capability call
// itself fails: extraction failures for one document never abort the batch.
func ErrorRecord(sourcePath, message string) entity.DocumentRecord {
	return entity.DocumentRecord{
		SourcePath:     sourcePath,
		Type:           constants.ErrorDocument,
		TypeConfidence: constants.ConfidenceLow,
		ExtraFields:    map[string]string{"erreur": message},
		QualityScore:   0,
		QualityTier:    constants.TierLow,
		Mode:           constants.ModeError,
	}
}

func firstOf(fields map[string]string, keys []string) string {
	for _, key := range keys {
		if v := fields[key]; v != "" {
			return v
		}
	}
	return ""
}
