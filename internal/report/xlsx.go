package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

const (
	sheetDocuments = "Documents"
	sheetSummary   = "Resume"
)

// BuildXLSX renders the analysis as a two-sheet workbook: one row per
// document with the canonical field matrix, plus a summary sheet carrying
// the run counters and the concordance verdict.
func BuildXLSX(state entity.PipelineState) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeDocumentsSheet(f, state); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, state); err != nil {
		return nil, err
	}

	// Drop the default sheet excelize opens with.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}
	if idx, _ := f.GetSheetIndex(sheetDocuments); idx != -1 {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDocumentsSheet(f *excelize.File, state entity.PipelineState) error {
	if _, err := f.NewSheet(sheetDocuments); err != nil {
		return err
	}

	headers := []string{
		"Fichier", "Type", "Nom", "Prenom", "Date naissance", "Numero",
		"Adresse", "Date emission", "Date expiration",
		"Qualite image", "Confiance", "Score", "Niveau", "Mode",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetDocuments, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, path := range sortedPaths(state.Records) {
		rec := state.Records[path]
		values := []any{
			filepath.Base(path),
			string(rec.Type),
			rec.FullName,
			rec.FirstName,
			rec.BirthDate,
			rec.DocumentNumber,
			rec.Address,
			rec.IssueDate,
			rec.ExpiryDate,
			rec.ImageQuality,
			string(rec.TypeConfidence),
			rec.QualityScore,
			string(rec.QualityTier),
			string(rec.Mode),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetDocuments, cell, v); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

func writeSummarySheet(f *excelize.File, state entity.PipelineState) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}

	rows := [][2]any{
		{"Dossier", state.FolderPath},
		{"Run", state.RunID},
		{"Documents analyses", state.AnalyzedCount},
		{"PDFs traites", state.LoadedCount - state.RejectedCount},
		{"PDFs rejetes", state.RejectedCount},
		{"Images generees", state.ImageCount},
		{"Erreurs", len(state.Errors)},
	}
	if c := state.Concordance; c != nil {
		rows = append(rows,
			[2]any{"Concordance", ouiNon(c.IsConcordant)},
			[2]any{"Problemes detectes", len(c.Discrepancies)},
			[2]any{"Score de confiance", c.ConfidenceScore},
		)
	}

	for i, kv := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(sheetSummary, keyCell, kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetSummary, valCell, kv[1]); err != nil {
			return err
		}
	}
	return nil
}
