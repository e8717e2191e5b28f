package docload

import (
	"log/slog"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var relaxedConf = func() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}()

// VerifyPDF reports whether the file opens as a PDF with at least one page.
// Validation is relaxed: scanner-produced PDFs are often slightly out of
// spec but still rasterize fine.
func VerifyPDF(path string, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}

	if err := api.ValidateFile(path, relaxedConf); err != nil {
		logger.Warn("docload.verify.invalid", "file", filepath.Base(path), "error", err)
		return false
	}
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		logger.Warn("docload.verify.unreadable", "file", filepath.Base(path), "error", err)
		return false
	}
	if pageCount == 0 {
		logger.Warn("docload.verify.empty", "file", filepath.Base(path))
		return false
	}
	logger.Debug("docload.verify.ok", "file", filepath.Base(path), "pages", pageCount)
	return true
}

// PartitionPDFs splits candidates into valid and rejected ones. A corrupt
// file is rejected, never fatal: processing continues with the rest.
func PartitionPDFs(candidates []string, logger *slog.Logger) (valid, rejected []string) {
	for _, path := range candidates {
		if VerifyPDF(path, logger) {
			valid = append(valid, path)
		} else {
			rejected = append(rejected, path)
		}
	}
	return valid, rejected
}
