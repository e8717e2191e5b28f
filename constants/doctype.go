package constants

import (
	"strings"
)

// DocumentType is the canonical vocabulary for classified documents.
type DocumentType string

const (
	NationalID    DocumentType = "NATIONAL_ID"
	Passport      DocumentType = "PASSPORT"
	UtilityBill   DocumentType = "UTILITY_BILL"
	Payslip       DocumentType = "PAYSLIP"
	BankStatement DocumentType = "BANK_STATEMENT"
	OtherDocument DocumentType = "OTHER"
	ErrorDocument DocumentType = "ERREUR"
)

// Wire labels the extraction model answers with on the TYPE_DOCUMENT line.
const (
	WireCIN           = "CIN"
	WirePasseport     = "PASSEPORT"
	WireFactureElec   = "FACTURE_ELECTRICITE"
	WireBulletin      = "BULLETIN_SALAIRE"
	WireReleve        = "RELEVE_BANCAIRE"
	WireJustifDomicil = "JUSTIFICATIF_DOMICILE"
)

// CanonicalType maps a wire label (or free-form variant of it) to the
// canonical vocabulary. Unrecognized labels map to OTHER with ok=false so
// callers can keep the raw label around.
func CanonicalType(label string) (DocumentType, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	switch {
	case normalized == "":
		return OtherDocument, false
	case strings.HasPrefix(normalized, WireCIN):
		return NationalID, true
	case strings.HasPrefix(normalized, WirePasseport):
		return Passport, true
	case strings.HasPrefix(normalized, WireFactureElec):
		return UtilityBill, true
	case strings.HasPrefix(normalized, WireBulletin):
		return Payslip, true
	case strings.HasPrefix(normalized, WireReleve):
		return BankStatement, true
	case strings.HasPrefix(normalized, WireJustifDomicil):
		return UtilityBill, true
	case strings.HasPrefix(normalized, "ERREUR"):
		return ErrorDocument, true
	}
	return OtherDocument, false
}

// Confidence is the classification confidence tier reported by the model.
type Confidence string

const (
	ConfidenceHigh    Confidence = "HIGH"
	ConfidenceMedium  Confidence = "MEDIUM"
	ConfidenceLow     Confidence = "LOW"
	ConfidenceUnknown Confidence = "UNKNOWN"
)

// CanonicalConfidence maps the wire tier (HAUTE/MOYENNE/FAIBLE) to the
// canonical one.
func CanonicalConfidence(label string) Confidence {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "HAUTE", "HIGH":
		return ConfidenceHigh
	case "MOYENNE", "MEDIUM":
		return ConfidenceMedium
	case "FAIBLE", "LOW":
		return ConfidenceLow
	}
	return ConfidenceUnknown
}

// Image quality tiers as reported by the model on the QUALITE_IMAGE line.
const (
	ImageQualityGood   = "BONNE"
	ImageQualityMedium = "MOYENNE"
	ImageQualityLow    = "FAIBLE"
)

// QualityTier buckets the 0-100 extraction quality score.
type QualityTier string

const (
	TierExcellent QualityTier = "EXCELLENT"
	TierGood      QualityTier = "BON"
	TierMedium    QualityTier = "MOYEN"
	TierLow       QualityTier = "FAIBLE"
)

// TierForScore maps a clamped quality score to its tier.
func TierForScore(score int) QualityTier {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 70:
		return TierGood
	case score >= 50:
		return TierMedium
	}
	return TierLow
}
