package entity

import (
	"maps"

	"github.com/ismoky07/Octroi-Credit/constants"
)

// DocumentRecord is one extracted document's structured data.
//
// All string fields are raw model output: absence means "not applicable or
// illegible", and any field may carry a sentinel marker (ILLISIBLE,
// "PARTIEL: ...", "INCERTAIN: ...") as a literal value. Dates stay free-text
// because the transcript format is unreliable.
//
// Records are created once per source image and never mutated afterwards.
type DocumentRecord struct {
	SourcePath string `json:"source_path"`

	Type           constants.DocumentType `json:"document_type"`
	RawTypeLabel   string                 `json:"raw_type_label,omitempty"`
	TypeConfidence constants.Confidence   `json:"classification_confidence"`
	ImageQuality   string                 `json:"image_quality,omitempty"`

	FullName       string `json:"full_name,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	BirthDate      string `json:"birth_date,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
	Address        string `json:"address,omitempty"`
	IssueDate      string `json:"issue_date,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty"`

	// ExtraFields holds document-type-specific keys (employer, account
	// number, balance, ...) that have no slot in the primary schema.
	ExtraFields map[string]string `json:"extra_fields,omitempty"`

	Observations []string `json:"observations,omitempty"`

	QualityScore int                      `json:"quality_score"`
	QualityTier  constants.QualityTier    `json:"quality_tier"`
	Mode         constants.ExtractionMode `json:"extraction_mode"`
}

// Clone returns a deep copy, so stage functions can hand out records without
// sharing the extra-fields map.
func (r DocumentRecord) Clone() DocumentRecord {
	out := r
	if r.ExtraFields != nil {
		out.ExtraFields = maps.Clone(r.ExtraFields)
	}
	if r.Observations != nil {
		out.Observations = append([]string(nil), r.Observations...)
	}
	return out
}

// Extra returns the extra field for key, or "".
func (r DocumentRecord) Extra(key string) string {
	if r.ExtraFields == nil {
		return ""
	}
	return r.ExtraFields[key]
}

// NationalID returns the record's national-ID number when it carries one:
// the document number of a NATIONAL_ID record, or an explicit numero_cin
// extra field on any other type.
func (r DocumentRecord) NationalID() string {
	if r.Type == constants.NationalID && constants.Usable(r.DocumentNumber) {
		return r.DocumentNumber
	}
	if v := r.Extra("numero_cin"); constants.Usable(v) {
		return v
	}
	return ""
}

// BankAccount returns the record's account number or RIB/IBAN when present.
func (r DocumentRecord) BankAccount() string {
	if r.Type == constants.BankStatement && constants.Usable(r.DocumentNumber) {
		return r.DocumentNumber
	}
	for _, key := range []string{"numero_compte", "rib", "iban"} {
		if v := r.Extra(key); constants.Usable(v) {
			return v
		}
	}
	return ""
}

// Employer returns the employer name when present.
func (r DocumentRecord) Employer() string {
	for _, key := range []string{"entreprise", "employeur"} {
		if v := r.Extra(key); constants.Usable(v) {
			return v
		}
	}
	return ""
}

// SocialSecurityNumber returns the CNSS / social security number when present.
func (r DocumentRecord) SocialSecurityNumber() string {
	for _, key := range []string{"numero_securite_sociale", "numero_cnss"} {
		if v := r.Extra(key); constants.Usable(v) {
			return v
		}
	}
	return ""
}

// Phone returns the phone number when present.
func (r DocumentRecord) Phone() string {
	if v := r.Extra("telephone"); constants.Usable(v) {
		return v
	}
	return ""
}

// CaseBundle is the set of all DocumentRecords belonging to one applicant's
// folder, keyed by source image path. It is the unit of concordance analysis.
type CaseBundle map[string]DocumentRecord

// Clone deep-copies the bundle.
func (b CaseBundle) Clone() CaseBundle {
	if b == nil {
		return nil
	}
	out := make(CaseBundle, len(b))
	for path, rec := range b {
		out[path] = rec.Clone()
	}
	return out
}
