package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

// Document is the machine-readable analysis report. Its shape is frozen by
// the embedded JSON schema; WriteJSON refuses to emit a document that does
// not validate.
type Document struct {
	Resume      Resume                           `json:"resume"`
	Documents   map[string]entity.DocumentRecord `json:"documents"`
	Problems    []string                         `json:"problemes_concordance"`
	Extraction  *entity.ExtractionSummary        `json:"resume_extraction,omitempty"`
	Analysis    *entity.ConcordanceResult        `json:"analyse_detaillee,omitempty"`
	Extractions map[string]ExtractionDetail      `json:"details_extraction,omitempty"`
	Errors      []string                         `json:"erreurs,omitempty"`
	RunID       string                           `json:"run_id"`
	Timestamp   string                           `json:"timestamp"`
}

// Resume is the executive summary block.
type Resume struct {
	DocumentCount   int     `json:"nombre_documents"`
	Concordant      bool    `json:"concordance"`
	ProblemCount    int     `json:"nombre_problemes"`
	ConfidenceScore float64 `json:"score_confiance"`
	LoadedPDFs      int     `json:"pdfs_traites"`
	RejectedPDFs    int     `json:"pdfs_rejetes"`
	ImageCount      int     `json:"images_generees"`
	DurationSeconds float64 `json:"temps_execution"`
}

// ExtractionDetail carries the raw capability output per document for audit.
type ExtractionDetail struct {
	Mode          string `json:"mode_extraction"`
	QualityScore  int    `json:"score_qualite"`
	QualityTier   string `json:"niveau_qualite"`
	RawTranscript string `json:"extraction_brute,omitempty"`
}

// BuildDocument assembles the report document from a finished pipeline state.
func BuildDocument(state entity.PipelineState, now time.Time) Document {
	doc := Document{
		Documents: make(map[string]entity.DocumentRecord, len(state.Records)),
		Problems:  []string{},
		RunID:     state.RunID,
		Timestamp: now.Format(time.RFC3339),
	}

	doc.Resume = Resume{
		DocumentCount:   state.AnalyzedCount,
		Concordant:      true,
		LoadedPDFs:      state.LoadedCount - state.RejectedCount,
		RejectedPDFs:    state.RejectedCount,
		ImageCount:      state.ImageCount,
		DurationSeconds: state.Duration.Seconds(),
	}
	doc.Extraction = state.Extraction
	if c := state.Concordance; c != nil {
		doc.Analysis = c
		doc.Resume.Concordant = c.IsConcordant
		doc.Resume.ProblemCount = len(c.Discrepancies)
		doc.Resume.ConfidenceScore = c.ConfidenceScore
		if len(c.Discrepancies) > 0 {
			doc.Problems = append(doc.Problems, c.Discrepancies...)
		}
	}

	for path, rec := range state.Records {
		name := filepath.Base(path)
		doc.Documents[name] = rec

		detail := ExtractionDetail{
			Mode:         string(rec.Mode),
			QualityScore: rec.QualityScore,
			QualityTier:  string(rec.QualityTier),
		}
		if raw, ok := state.RawTranscripts[path]; ok {
			detail.RawTranscript = raw
		}
		if doc.Extractions == nil {
			doc.Extractions = make(map[string]ExtractionDetail, len(state.Records))
		}
		doc.Extractions[name] = detail
	}

	doc.Errors = append(doc.Errors, state.Errors...)
	return doc
}

// Marshal renders the document as indented JSON after schema validation.
func Marshal(doc Document) ([]byte, error) {
	if err := ValidateDocument(doc); err != nil {
		return nil, fmt.Errorf("report document invalid: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON validates and writes the document to path.
func WriteJSON(path string, doc Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
