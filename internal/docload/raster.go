package docload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RasterConfig holds rasterization settings.
type RasterConfig struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // default 300
}

// Rasterizer converts valid PDFs into one PNG per page, named
// {source_basename}_page_{page:02d}.png inside the output directory.
type Rasterizer struct {
	cfg    RasterConfig
	runner Runner
	logger *slog.Logger
}

func NewRasterizer(cfg RasterConfig, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Rasterizer{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// WithRunner swaps the command runner; tests use this to stub pdftoppm.
func (r *Rasterizer) WithRunner(runner Runner) *Rasterizer {
	r.runner = runner
	return r
}

// RasterizeAll renders every page of every PDF into outputDir (created if
// absent). A failure on one PDF is recorded and does not abort the rest, so
// the returned image list may be shorter than pages x pdfs.
func (r *Rasterizer) RasterizeAll(ctx context.Context, pdfPaths []string, outputDir string) (images []string, errs []string) {
	if len(pdfPaths) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, []string{fmt.Sprintf("creating output dir %s: %v", outputDir, err)}
	}

	for _, pdfPath := range pdfPaths {
		pages, err := r.rasterizeOne(ctx, pdfPath, outputDir)
		if err != nil {
			r.logger.Warn("docload.raster.failed", "file", filepath.Base(pdfPath), "error", err)
			errs = append(errs, fmt.Sprintf("rasterizing %s: %v", filepath.Base(pdfPath), err))
			continue
		}
		images = append(images, pages...)
	}

	r.logger.Info("docload.raster.ok", "pdf_count", len(pdfPaths), "image_count", len(images))
	return images, errs
}

func (r *Rasterizer) rasterizeOne(ctx context.Context, pdfPath, outputDir string) ([]string, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	prefix := filepath.Join(outputDir, base+".render")

	// pdftoppm -r <dpi> -png <in.pdf> <outputDir/base.render>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm,
		"-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, clip(errb, 512))
	}

	// pdftoppm emits prefix-1.png ... prefix-N.png (zero-padded when N > 9);
	// rename into the deterministic page naming contract.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no pages rendered")
	}

	out := make([]string, 0, len(matches))
	for i, rendered := range matches {
		dest := filepath.Join(outputDir, fmt.Sprintf("%s_page_%02d.png", base, i+1))
		if err := os.Rename(rendered, dest); err != nil {
			return nil, fmt.Errorf("renaming page %d: %w", i+1, err)
		}
		out = append(out, dest)
	}
	return out, nil
}
