package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ismoky07/Octroi-Credit/internal/common"
	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

// Output file names inside the case folder.
const (
	TextFileName = "rapport_ocr.txt"
	JSONFileName = "rapport_analyse.json"
	XLSXFileName = "rapport_analyse.xlsx"
)

// Writer persists the report in every requested format.
type Writer struct {
	withXLSX bool
	logger   *slog.Logger
}

func NewWriter(withXLSX bool, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{withXLSX: withXLSX, logger: logger}
}

// SaveAll writes the text and JSON reports (plus XLSX when enabled) into
// outputDir and returns the written paths. A failure on one format does not
// block the others; the first error is returned after all formats are tried.
func (w *Writer) SaveAll(outputDir string, state entity.PipelineState) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, common.NewAppError(common.CodeReport, "creating report dir", err)
	}
	now := time.Now()

	var written []string
	var firstErr error

	textPath := filepath.Join(outputDir, TextFileName)
	if err := os.WriteFile(textPath, []byte(RenderText(state, now)), 0o644); err != nil {
		firstErr = fmt.Errorf("writing text report: %w", err)
		w.logger.Error("report.write.text_failed", "path", textPath, "error", err)
	} else {
		written = append(written, textPath)
		w.logger.Info("report.write.text_ok", "path", textPath)
	}

	jsonPath := filepath.Join(outputDir, JSONFileName)
	if err := WriteJSON(jsonPath, BuildDocument(state, now)); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("writing json report: %w", err)
		}
		w.logger.Error("report.write.json_failed", "path", jsonPath, "error", err)
	} else {
		written = append(written, jsonPath)
		w.logger.Info("report.write.json_ok", "path", jsonPath)
	}

	if w.withXLSX {
		xlsxPath := filepath.Join(outputDir, XLSXFileName)
		data, err := BuildXLSX(state)
		if err == nil {
			err = os.WriteFile(xlsxPath, data, 0o644)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("writing xlsx report: %w", err)
			}
			w.logger.Error("report.write.xlsx_failed", "path", xlsxPath, "error", err)
		} else {
			written = append(written, xlsxPath)
			w.logger.Info("report.write.xlsx_ok", "path", xlsxPath)
		}
	}

	return written, firstErr
}
