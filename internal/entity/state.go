package entity

import (
	"maps"
	"time"

	"github.com/ismoky07/Octroi-Credit/constants"
)

// FieldCoverage counts how many records in a bundle carry a usable value for
// each field category. Used by the scoring rules and the report.
type FieldCoverage struct {
	WithFullName       int `json:"documents_with_full_name"`
	WithFirstName      int `json:"documents_with_first_name"`
	WithBirthDate      int `json:"documents_with_birth_date"`
	WithAddress        int `json:"documents_with_address"`
	WithNationalID     int `json:"documents_with_national_id"`
	WithPhone          int `json:"documents_with_phone"`
	WithBankAccount    int `json:"documents_with_bank_account"`
	WithEmployer       int `json:"documents_with_employer"`
	WithSocialSecurity int `json:"documents_with_social_security"`
}

// ConcordanceResult is the output of one full concordance analysis.
//
// IsConcordant is true iff Discrepancies is empty; ConfidenceScore is
// informational and never gates the verdict.
type ConcordanceResult struct {
	IsConcordant    bool           `json:"is_concordant"`
	Discrepancies   []string       `json:"discrepancies"`
	ConfidenceScore float64        `json:"confidence_score"`
	Recommendations []string       `json:"recommendations"`
	Coverage        FieldCoverage  `json:"field_coverage"`
	TypeCounts      map[string]int `json:"document_type_counts,omitempty"`
	TotalDocuments  int            `json:"total_documents"`
}

// ExtractionSummary aggregates per-run extraction statistics: how many
// documents came through cleanly, how many needed the recovery pass, and
// what to tell the operator about the batch.
type ExtractionSummary struct {
	TotalDocuments  int      `json:"total_documents"`
	DocumentsOK     int      `json:"documents_traites_ok"`
	Excellent       int      `json:"documents_excellents"`
	InRecovery      int      `json:"documents_en_recuperation"`
	InError         int      `json:"documents_en_erreur"`
	SuccessRate     string   `json:"taux_succes_global"`
	ExcellenceRate  string   `json:"taux_excellence"`
	Recommendations []string `json:"recommandations_extraction,omitempty"`
}

// PipelineState is the orchestration record threaded through all stages.
// Each stage reads the previous complete state and returns a new one; no
// stage mutates a state in place, which keeps re-runs idempotent.
type PipelineState struct {
	RunID      string
	FolderPath string

	PDFPaths     []string
	RejectedPDFs []string
	ImagePaths   []string

	// RawTranscripts holds the capability's raw text per image path.
	RawTranscripts map[string]string
	Records        CaseBundle
	Extraction     *ExtractionSummary
	Concordance    *ConcordanceResult

	Errors []string
	Status constants.PipelineStatus

	StartedAt time.Time
	Duration  time.Duration

	// Aggregate counters for observability collaborators.
	LoadedCount   int
	RejectedCount int
	ImageCount    int
	AnalyzedCount int
}

// Clone deep-copies the state so a stage can build its successor without
// aliasing the predecessor's slices and maps.
func (s PipelineState) Clone() PipelineState {
	out := s
	out.PDFPaths = append([]string(nil), s.PDFPaths...)
	out.RejectedPDFs = append([]string(nil), s.RejectedPDFs...)
	out.ImagePaths = append([]string(nil), s.ImagePaths...)
	out.Errors = append([]string(nil), s.Errors...)
	if s.RawTranscripts != nil {
		out.RawTranscripts = maps.Clone(s.RawTranscripts)
	}
	out.Records = s.Records.Clone()
	if s.Extraction != nil {
		sum := *s.Extraction
		sum.Recommendations = append([]string(nil), s.Extraction.Recommendations...)
		out.Extraction = &sum
	}
	if s.Concordance != nil {
		res := *s.Concordance
		res.Discrepancies = append([]string(nil), s.Concordance.Discrepancies...)
		res.Recommendations = append([]string(nil), s.Concordance.Recommendations...)
		if s.Concordance.TypeCounts != nil {
			res.TypeCounts = maps.Clone(s.Concordance.TypeCounts)
		}
		out.Concordance = &res
	}
	return out
}
