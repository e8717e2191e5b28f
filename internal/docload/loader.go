package docload

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/common"
)

// ListPDFs returns the paths of all PDF files directly inside folder,
// sorted lexicographically so runs are reproducible.
//
// A missing folder or a listing failure is not fatal: the function returns
// an empty slice plus the error message, and the caller records it on the
// pipeline state.
func ListPDFs(folder string, logger *slog.Logger) ([]string, string) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		appErr := common.NewAppError(common.CodeLoad, "listing folder "+folder, err)
		logger.Warn("docload.list.failed", "folder", folder, "error", err)
		return nil, appErr.Error()
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !constants.IsPDFExt(filepath.Ext(entry.Name())) {
			continue
		}
		paths = append(paths, filepath.Join(folder, entry.Name()))
	}
	sort.Strings(paths)

	logger.Info("docload.list.ok", "folder", folder, "pdf_count", len(paths))
	return paths, ""
}
