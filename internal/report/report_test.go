package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/entity"
	"github.com/ismoky07/Octroi-Credit/internal/report"
)

func sampleState() entity.PipelineState {
	return entity.PipelineState{
		RunID:      "run-42",
		FolderPath: "/dossiers/demande_001",
		Records: entity.CaseBundle{
			"/dossiers/demande_001/images_temp/cin_page_01.png": {
				SourcePath:     "/dossiers/demande_001/images_temp/cin_page_01.png",
				Type:           constants.NationalID,
				TypeConfidence: constants.ConfidenceHigh,
				ImageQuality:   "BONNE",
				FullName:       "BENALI",
				FirstName:      "Youssef",
				BirthDate:      "12/03/1985",
				DocumentNumber: "AB123456",
				Address:        "12 Rue des Orangers, Casablanca",
				QualityScore:   100,
				QualityTier:    constants.TierExcellent,
				Mode:           constants.ModeNormal,
			},
			"/dossiers/demande_001/images_temp/releve_page_01.png": {
				SourcePath:     "/dossiers/demande_001/images_temp/releve_page_01.png",
				Type:           constants.BankStatement,
				TypeConfidence: constants.ConfidenceMedium,
				ImageQuality:   "MOYENNE",
				FullName:       "BENALI",
				DocumentNumber: "0115 0000 1234 5678",
				ExtraFields:    map[string]string{"banque": "Banque Populaire"},
				QualityScore:   75,
				QualityTier:    constants.TierGood,
				Mode:           constants.ModeRecovery,
			},
		},
		RawTranscripts: map[string]string{
			"/dossiers/demande_001/images_temp/cin_page_01.png": "TYPE_DOCUMENT: CIN",
		},
		Extraction: &entity.ExtractionSummary{
			TotalDocuments: 2,
			DocumentsOK:    2,
			Excellent:      1,
			InRecovery:     1,
			SuccessRate:    "100.0%",
			ExcellenceRate: "50.0%",
		},
		Concordance: &entity.ConcordanceResult{
			IsConcordant:    true,
			ConfidenceScore: 95,
			Coverage:        entity.FieldCoverage{WithFullName: 2, WithNationalID: 1, WithAddress: 1},
			TotalDocuments:  2,
		},
		Status:        constants.StatusDone,
		Duration:      3 * time.Second,
		LoadedCount:   2,
		RejectedCount: 0,
		ImageCount:    2,
		AnalyzedCount: 2,
	}
}

func TestRenderText(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	text := report.RenderText(sampleState(), now)

	for _, want := range []string{
		"RAPPORT D'ANALYSE DE DOCUMENTS",
		"RESUME EXECUTIF",
		"Nombre de documents analyses: 2",
		"Documents traites avec succes: 2",
		"Taux de succes global: 100.0%",
		"Documents en mode recuperation: 1",
		"Concordance des informations: OUI",
		"Score de confiance: 95.0/100",
		"DETAILS DES DOCUMENTS",
		"Document: cin_page_01.png",
		"Nom: BENALI",
		"Numero: AB123456",
		"- banque: Banque Populaire",
		"ANALYSE DE CONCORDANCE",
		"Toutes les informations concordent entre les documents.",
		"RECOMMANDATIONS",
		"DOSSIER EXCELLENT",
		"Date de generation: 2026-09-01 10:30:00",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "ERREURS TECHNIQUES")
}

func TestRenderTextDiscordantCase(t *testing.T) {
	state := sampleState()
	state.Concordance = &entity.ConcordanceResult{
		IsConcordant:    false,
		Discrepancies:   []string{"Discordance des noms: BENALI (cin.png), ALAMI (releve.png)"},
		ConfidenceScore: 40,
		Recommendations: []string{"Discordances detectees - verification manuelle recommandee"},
		TotalDocuments:  2,
	}
	state.Errors = []string{"PDF rejete: casse.pdf"}

	text := report.RenderText(state, time.Now())

	assert.Contains(t, text, "Concordance des informations: NON")
	assert.Contains(t, text, "Nombre de problemes detectes: 1")
	assert.Contains(t, text, "1. Discordance des noms")
	assert.Contains(t, text, "VERIFICATION MANUELLE REQUISE")
	assert.Contains(t, text, "ERREURS TECHNIQUES RENCONTREES")
	assert.Contains(t, text, "- PDF rejete: casse.pdf")
	assert.NotContains(t, text, "DOSSIER EXCELLENT")
}

func TestBuildDocumentAndValidate(t *testing.T) {
	doc := report.BuildDocument(sampleState(), time.Now())

	assert.Equal(t, 2, doc.Resume.DocumentCount)
	assert.True(t, doc.Resume.Concordant)
	assert.Equal(t, 95.0, doc.Resume.ConfidenceScore)
	assert.Equal(t, "run-42", doc.RunID)
	require.Contains(t, doc.Documents, "cin_page_01.png")
	require.Contains(t, doc.Extractions, "cin_page_01.png")
	assert.Equal(t, "TYPE_DOCUMENT: CIN", doc.Extractions["cin_page_01.png"].RawTranscript)
	assert.Equal(t, "RECUPERATION", doc.Extractions["releve_page_01.png"].Mode)

	require.NotNil(t, doc.Extraction)
	assert.Equal(t, 2, doc.Extraction.DocumentsOK)
	assert.Equal(t, "100.0%", doc.Extraction.SuccessRate)

	require.NoError(t, report.ValidateDocument(doc))

	data, err := report.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, report.ValidateJSON(data))
	assert.Contains(t, string(data), `"resume_extraction"`)
}

func TestValidateDocumentRejectsBadShape(t *testing.T) {
	doc := report.BuildDocument(sampleState(), time.Now())
	doc.RunID = ""
	assert.Error(t, report.ValidateDocument(doc))

	doc = report.BuildDocument(sampleState(), time.Now())
	doc.Resume.ConfidenceScore = 120
	assert.Error(t, report.ValidateDocument(doc))

	doc = report.BuildDocument(sampleState(), time.Now())
	doc.Extraction = &entity.ExtractionSummary{TotalDocuments: -1, SuccessRate: "0%"}
	assert.Error(t, report.ValidateDocument(doc))
}

func TestBuildXLSX(t *testing.T) {
	data, err := report.BuildXLSX(sampleState())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per document")
	assert.Equal(t, "Fichier", rows[0][0])
	assert.Equal(t, "cin_page_01.png", rows[1][0])
	assert.Equal(t, "NATIONAL_ID", rows[1][1])
	assert.Equal(t, "releve_page_01.png", rows[2][0])

	summary, err := f.GetRows("Resume")
	require.NoError(t, err)
	assert.NotEmpty(t, summary)
	assert.Equal(t, "Dossier", summary[0][0])
}

func TestWriterSaveAll(t *testing.T) {
	dir := t.TempDir()
	w := report.NewWriter(true, nil)

	written, err := w.SaveAll(dir, sampleState())
	require.NoError(t, err)
	require.Len(t, written, 3)

	for _, name := range []string{report.TextFileName, report.JSONFileName, report.XLSXFileName} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, statErr, name)
	}

	jsonData, err := os.ReadFile(filepath.Join(dir, report.JSONFileName))
	require.NoError(t, err)
	require.NoError(t, report.ValidateJSON(jsonData))
}

func TestWriterSaveAllWithoutXLSX(t *testing.T) {
	dir := t.TempDir()
	w := report.NewWriter(false, nil)

	written, err := w.SaveAll(dir, sampleState())
	require.NoError(t, err)
	require.Len(t, written, 2)
	_, statErr := os.Stat(filepath.Join(dir, report.XLSXFileName))
	assert.True(t, os.IsNotExist(statErr))
}
