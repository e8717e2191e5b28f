package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/common"
	"github.com/ismoky07/Octroi-Credit/internal/concordance"
	"github.com/ismoky07/Octroi-Credit/internal/docload"
	"github.com/ismoky07/Octroi-Credit/internal/extract"
	"github.com/ismoky07/Octroi-Credit/internal/pipeline"
	"github.com/ismoky07/Octroi-Credit/internal/report"
	"github.com/ismoky07/Octroi-Credit/internal/runstore"
	"github.com/ismoky07/Octroi-Credit/internal/vision"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "applicant folder containing the PDF documents (required)")
		out     = flag.String("out", "", "report output directory (defaults to the applicant folder)")
		workers = flag.Int("workers", 0, "concurrent extraction calls (defaults to EXTRACT_WORKERS)")
		dpi     = flag.Int("dpi", 0, "rasterization DPI (defaults to RASTER_DPI)")
		xlsx    = flag.Bool("xlsx", false, "also write the XLSX report")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = *dir
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if *dpi > 0 {
		cfg.Raster.DPI = *dpi
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	client := vision.NewClient(vision.Config{
		APIKey:      cfg.Vision.APIKey,
		BaseURL:     cfg.Vision.BaseURL,
		Model:       cfg.Vision.Model,
		Temperature: cfg.Vision.Temperature,
		MaxTokens:   cfg.Vision.MaxTokens,
		Timeout:     cfg.Vision.Timeout,
	}, logger)

	rasterizer := docload.NewRasterizer(docload.RasterConfig{
		Pdftoppm: cfg.Raster.Pdftoppm,
		DPI:      cfg.Raster.DPI,
	}, logger)

	extractor := extract.NewExtractor(client, extract.Config{
		Workers:        cfg.Pipeline.Workers,
		RequestTimeout: cfg.Vision.Timeout,
	}, logger)

	p := pipeline.New(rasterizer, extractor, concordance.NewEngine(logger),
		cfg.Pipeline.ImageSubdir, logger)

	state := p.Run(ctx, *dir)
	if state.Status == constants.StatusError {
		for _, e := range state.Errors {
			printError("Error: %s\n", e)
		}
		os.Exit(1)
	}

	writer := report.NewWriter(*xlsx, logger)
	written, err := writer.SaveAll(*out, state)
	if err != nil {
		logger.Error("report writing incomplete", "error", err)
	}
	for _, path := range written {
		fmt.Printf("Rapport: %s\n", path)
	}

	storePath := cfg.RunStore.Path
	if storePath == "" {
		storePath = filepath.Join(*out, "runs.db")
	}
	if store, err := runstore.Open(storePath, logger); err != nil {
		logger.Error("runstore unavailable", "error", err)
	} else {
		defer store.Close()
		if err := store.RecordRun(ctx, state); err != nil {
			logger.Error("recording run failed", "error", err)
		}
	}

	if state.Concordance != nil {
		fmt.Printf("Concordance: %s (score %.1f/100)\n",
			ouiNon(state.Concordance.IsConcordant), state.Concordance.ConfidenceScore)
	}
	fmt.Printf("Documents analyses: %d, PDFs rejetes: %d, erreurs: %d\n",
		state.AnalyzedCount, state.RejectedCount, len(state.Errors))
}

func ouiNon(v bool) string {
	if v {
		return "OUI"
	}
	return "NON"
}
