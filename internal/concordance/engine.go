package concordance

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

// Engine cross-validates the records of one applicant bundle.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// sourcedValue is one usable field value with the record it came from.
type sourcedValue struct {
	source string
	value  string
}

// Analyze runs every verification check over the bundle and scores the
// outcome. A bundle with fewer than two records is trivially concordant:
// there is nothing to cross-check.
func (e *Engine) Analyze(bundle entity.CaseBundle) entity.ConcordanceResult {
	result := entity.ConcordanceResult{
		IsConcordant:   true,
		TotalDocuments: len(bundle),
		Coverage:       coverage(bundle),
		TypeCounts:     typeCounts(bundle),
	}

	if len(bundle) >= 2 {
		records := orderedRecords(bundle)
		var discrepancies []string
		discrepancies = append(discrepancies, checkIdentity(records)...)
		discrepancies = append(discrepancies, checkOfficialIDs(records)...)
		discrepancies = append(discrepancies, checkDomicileContact(records)...)
		discrepancies = append(discrepancies, checkFinancial(records)...)
		discrepancies = append(discrepancies, checkTemporal(records)...)
		discrepancies = append(discrepancies, checkCrossType(records)...)
		result.Discrepancies = discrepancies
		result.IsConcordant = len(discrepancies) == 0
	} else {
		e.logger.Info("concordance.analyze.trivial", "documents", len(bundle))
	}

	result.ConfidenceScore = confidenceScore(result.Coverage, len(result.Discrepancies))
	result.Recommendations = recommendations(result)

	e.logger.Info("concordance.analyze.done",
		"documents", result.TotalDocuments,
		"concordant", result.IsConcordant,
		"discrepancies", len(result.Discrepancies),
		"score", result.ConfidenceScore,
	)
	return result
}

// orderedRecords returns the bundle's records sorted by source path so every
// run over the same bundle emits discrepancies in the same order.
func orderedRecords(bundle entity.CaseBundle) []entity.DocumentRecord {
	paths := make([]string, 0, len(bundle))
	for path := range bundle {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	records := make([]entity.DocumentRecord, 0, len(paths))
	for _, path := range paths {
		records = append(records, bundle[path])
	}
	return records
}

// collect gathers the usable values of one field across all records.
// Sentinel-marked and empty values carry no signal and are skipped.
func collect(records []entity.DocumentRecord, get func(entity.DocumentRecord) string) []sourcedValue {
	var values []sourcedValue
	for _, rec := range records {
		if v := get(rec); constants.Usable(v) {
			values = append(values, sourcedValue{source: rec.SourcePath, value: v})
		}
	}
	return values
}

// groupDiscrepancy groups values by their normalized form and, when more
// than one distinct group exists, returns a discrepancy naming every value
// with its source file.
func groupDiscrepancy(label string, values []sourcedValue, normalize func(string) string) []string {
	if len(values) < 2 {
		return nil
	}
	groups := make(map[string]struct{})
	for _, sv := range values {
		groups[normalize(sv.value)] = struct{}{}
	}
	if len(groups) <= 1 {
		return nil
	}
	return []string{fmt.Sprintf("Discordance %s: %s", label, formatValues(values))}
}

func formatValues(values []sourcedValue) string {
	parts := make([]string, 0, len(values))
	for _, sv := range values {
		parts = append(parts, fmt.Sprintf("%s (%s)", sv.value, filepath.Base(sv.source)))
	}
	return strings.Join(parts, ", ")
}

func checkIdentity(records []entity.DocumentRecord) []string {
	var problems []string
	problems = append(problems, groupDiscrepancy("des noms",
		collect(records, func(r entity.DocumentRecord) string { return r.FullName }), NormalizeText)...)
	problems = append(problems, groupDiscrepancy("des prenoms",
		collect(records, func(r entity.DocumentRecord) string { return r.FirstName }), NormalizeText)...)
	problems = append(problems, groupDiscrepancy("des dates de naissance",
		collect(records, func(r entity.DocumentRecord) string { return r.BirthDate }), NormalizeNumber)...)
	return problems
}

func checkOfficialIDs(records []entity.DocumentRecord) []string {
	var problems []string
	problems = append(problems, groupDiscrepancy("des numeros CIN",
		collect(records, entity.DocumentRecord.NationalID), NormalizeNumber)...)
	problems = append(problems, groupDiscrepancy("des numeros de securite sociale",
		collect(records, entity.DocumentRecord.SocialSecurityNumber), NormalizeNumber)...)
	return problems
}

func checkDomicileContact(records []entity.DocumentRecord) []string {
	var problems []string

	addresses := collect(records, func(r entity.DocumentRecord) string { return r.Address })
	if clusters := clusterAddresses(addresses); clusters > 1 {
		problems = append(problems, fmt.Sprintf(
			"Possible discordance des adresses detectee entre %d groupes differents", clusters))
	}

	problems = append(problems, groupDiscrepancy("des numeros de telephone",
		collect(records, entity.DocumentRecord.Phone), NormalizeNumber)...)
	return problems
}

// clusterAddresses greedily buckets addresses: each joins the first existing
// cluster whose representative it fuzzy-matches at the address tolerance,
// otherwise it founds a new one.
func clusterAddresses(addresses []sourcedValue) int {
	if len(addresses) < 2 {
		return 0
	}
	var representatives []string
	for _, sv := range addresses {
		matched := false
		for _, rep := range representatives {
			if FuzzyEqual(sv.value, rep, ToleranceAddress) {
				matched = true
				break
			}
		}
		if !matched {
			representatives = append(representatives, sv.value)
		}
	}
	return len(representatives)
}

func checkFinancial(records []entity.DocumentRecord) []string {
	var problems []string
	problems = append(problems, groupDiscrepancy("des RIB/IBAN",
		collect(records, entity.DocumentRecord.BankAccount), NormalizeNumber)...)

	employers := collect(records, entity.DocumentRecord.Employer)
	if len(employers) >= 2 && clusterBy(employers, ToleranceDefault) > 1 {
		problems = append(problems, fmt.Sprintf("Discordance des employeurs: %s", formatValues(employers)))
	}

	// Salary-versus-transfer reconciliation is an extension point: the
	// fields are collected but no numeric rule is defined yet.
	_ = collect(records, func(r entity.DocumentRecord) string { return r.Extra("salaire_net") })
	return problems
}

func clusterBy(values []sourcedValue, tolerance float64) int {
	var representatives []string
	for _, sv := range values {
		matched := false
		for _, rep := range representatives {
			if FuzzyEqual(sv.value, rep, tolerance) {
				matched = true
				break
			}
		}
		if !matched {
			representatives = append(representatives, sv.value)
		}
	}
	return len(representatives)
}

// maxTemporalSpan is how far apart issue dates may be before the bundle
// looks stale: a six month window.
const maxTemporalSpan = 180 * 24 * time.Hour

func checkTemporal(records []entity.DocumentRecord) []string {
	issued := collect(records, func(r entity.DocumentRecord) string { return r.IssueDate })

	var parsed []time.Time
	for _, sv := range issued {
		if t, ok := ParseFlexibleDate(sv.value); ok {
			parsed = append(parsed, t)
		}
	}
	if len(parsed) < 2 {
		return nil
	}

	earliest, latest := parsed[0], parsed[0]
	for _, t := range parsed[1:] {
		if t.Before(earliest) {
			earliest = t
		}
		if t.After(latest) {
			latest = t
		}
	}

	span := latest.Sub(earliest)
	if span <= maxTemporalSpan {
		return nil
	}
	return []string{fmt.Sprintf(
		"Ecart important entre les dates d'emission des documents: %d jours",
		int(span.Hours()/24))}
}

// checkCrossType is the extension point for document-type-pair rules
// (national ID + utility bill, payslip + bank statement). No concrete rule
// is defined yet; absent pairs contribute nothing.
func checkCrossType(records []entity.DocumentRecord) []string {
	present := make(map[constants.DocumentType]bool)
	for _, rec := range records {
		present[rec.Type] = true
	}

	if present[constants.NationalID] && present[constants.UtilityBill] {
		// Address agreement is already enforced by the domicile check.
	}
	if present[constants.Payslip] && present[constants.BankStatement] {
		// Pay dates versus transfer dates, once statements carry line items.
	}
	return nil
}

func coverage(bundle entity.CaseBundle) entity.FieldCoverage {
	var c entity.FieldCoverage
	for _, rec := range bundle {
		if constants.Usable(rec.FullName) {
			c.WithFullName++
		}
		if constants.Usable(rec.FirstName) {
			c.WithFirstName++
		}
		if constants.Usable(rec.BirthDate) {
			c.WithBirthDate++
		}
		if constants.Usable(rec.Address) {
			c.WithAddress++
		}
		if rec.NationalID() != "" {
			c.WithNationalID++
		}
		if rec.Phone() != "" {
			c.WithPhone++
		}
		if rec.BankAccount() != "" {
			c.WithBankAccount++
		}
		if rec.Employer() != "" {
			c.WithEmployer++
		}
		if rec.SocialSecurityNumber() != "" {
			c.WithSocialSecurity++
		}
	}
	return c
}

func typeCounts(bundle entity.CaseBundle) map[string]int {
	if len(bundle) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, rec := range bundle {
		counts[string(rec.Type)]++
	}
	return counts
}

// confidenceScore starts at 100, charges 15 per discrepancy, and grants
// completeness bonuses before clamping to [0,100].
func confidenceScore(c entity.FieldCoverage, discrepancies int) float64 {
	score := 100.0
	score -= float64(discrepancies) * 15

	if c.WithFullName >= 2 {
		score += 5
	}
	if c.WithNationalID >= 1 {
		score += 10
	}
	if c.WithAddress >= 2 {
		score += 5
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// recommendations evaluates the advisory rules in declaration order. The
// rules are additive: any subset may fire.
func recommendations(result entity.ConcordanceResult) []string {
	var recs []string
	if result.Coverage.WithNationalID == 0 {
		recs = append(recs, "Aucun numero CIN detecte - verifier la qualite de l'OCR sur la CIN")
	}
	if result.Coverage.WithFullName < 2 {
		recs = append(recs, "Peu de documents contiennent le nom - ameliorer l'extraction")
	}
	if !result.IsConcordant {
		recs = append(recs, "Discordances detectees - verification manuelle recommandee")
	}
	if result.ConfidenceScore < 50 {
		recs = append(recs, "Score de confiance faible - revalider les documents")
	}
	return recs
}
