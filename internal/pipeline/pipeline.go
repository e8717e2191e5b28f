package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/concordance"
	"github.com/ismoky07/Octroi-Credit/internal/docload"
	"github.com/ismoky07/Octroi-Credit/internal/entity"
	"github.com/ismoky07/Octroi-Credit/internal/extract"
)

// Pipeline coordinates the document stages for one applicant folder:
// load → validate → rasterize → extract → concordance → report.
//
// Every stage is a total function from one PipelineState to the next. A
// stage that fails internally still advances with an empty result and an
// appended error; the only terminal failure is a missing root folder.
type Pipeline struct {
	rasterizer  *docload.Rasterizer
	extractor   *extract.Extractor
	engine      *concordance.Engine
	imageSubdir string
	logger      *slog.Logger
}

func New(rasterizer *docload.Rasterizer, extractor *extract.Extractor, engine *concordance.Engine, imageSubdir string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if imageSubdir == "" {
		imageSubdir = "images_temp"
	}
	return &Pipeline{
		rasterizer:  rasterizer,
		extractor:   extractor,
		engine:      engine,
		imageSubdir: imageSubdir,
		logger:      logger,
	}
}

// NewState builds the fresh INITIALIZED state for a run. Each run starts
// from scratch; nothing accumulates across runs over the same folder.
func NewState(folderPath string) entity.PipelineState {
	return entity.PipelineState{
		RunID:      uuid.NewString(),
		FolderPath: folderPath,
		Status:     constants.StatusInitialized,
		StartedAt:  time.Now(),
	}
}

// Run executes the full stage sequence and returns the final state. The
// returned state is DONE unless the root folder does not exist, which is the
// single fatal input error and terminates at ERROR with no stage executed.
func (p *Pipeline) Run(ctx context.Context, folderPath string) entity.PipelineState {
	state := NewState(folderPath)

	if info, err := os.Stat(folderPath); err != nil || !info.IsDir() {
		state.Status = constants.StatusError
		state.Errors = append(state.Errors, fmt.Sprintf("dossier introuvable: %s", folderPath))
		p.logger.Error("pipeline.run.rejected", "run_id", state.RunID, "folder", folderPath)
		return state
	}

	p.logger.Info("pipeline.run.start", "run_id", state.RunID, "folder", folderPath)

	state = p.Load(state)
	state = p.Validate(state)
	state = p.Rasterize(ctx, state)
	state = p.Extract(ctx, state)
	state = p.Concordance(state)
	state = p.Report(state)

	state.Status = constants.StatusDone
	state.Duration = time.Since(state.StartedAt)

	p.logger.Info("pipeline.run.done",
		"run_id", state.RunID,
		"loaded", state.LoadedCount,
		"rejected", state.RejectedCount,
		"images", state.ImageCount,
		"analyzed", state.AnalyzedCount,
		"errors", len(state.Errors),
		"elapsed_ms", state.Duration.Milliseconds(),
	)
	return state
}

// Load lists the folder's PDF files.
func (p *Pipeline) Load(state entity.PipelineState) entity.PipelineState {
	next := state.Clone()
	next.Status = constants.StatusLoading

	paths, errMsg := docload.ListPDFs(next.FolderPath, p.logger)
	next.PDFPaths = paths
	next.LoadedCount = len(paths)
	if errMsg != "" {
		next.Errors = append(next.Errors, errMsg)
	}
	return next
}

// Validate partitions loaded PDFs into usable and rejected ones.
func (p *Pipeline) Validate(state entity.PipelineState) entity.PipelineState {
	next := state.Clone()
	next.Status = constants.StatusValidating

	valid, rejected := docload.PartitionPDFs(next.PDFPaths, p.logger)
	next.PDFPaths = valid
	next.RejectedPDFs = rejected
	next.RejectedCount = len(rejected)
	for _, path := range rejected {
		next.Errors = append(next.Errors, fmt.Sprintf("PDF rejete: %s", filepath.Base(path)))
	}
	return next
}

// Rasterize converts the valid PDFs into page images.
func (p *Pipeline) Rasterize(ctx context.Context, state entity.PipelineState) entity.PipelineState {
	next := state.Clone()
	next.Status = constants.StatusRasterizing

	outputDir := filepath.Join(next.FolderPath, p.imageSubdir)
	images, errs := p.rasterizer.RasterizeAll(ctx, next.PDFPaths, outputDir)
	next.ImagePaths = images
	next.ImageCount = len(images)
	next.Errors = append(next.Errors, errs...)
	return next
}

// Extract runs the field extraction over every page image and reduces the
// outcomes into the case bundle.
func (p *Pipeline) Extract(ctx context.Context, state entity.PipelineState) entity.PipelineState {
	next := state.Clone()
	next.Status = constants.StatusExtracting

	bundle, transcripts, errs := p.extractor.ExtractAll(ctx, next.ImagePaths)
	next.Records = bundle
	next.RawTranscripts = transcripts
	next.AnalyzedCount = len(bundle)
	next.Errors = append(next.Errors, errs...)

	summary := extract.Summarize(bundle)
	next.Extraction = &summary
	return next
}

// Concordance cross-validates the bundle.
func (p *Pipeline) Concordance(state entity.PipelineState) entity.PipelineState {
	next := state.Clone()
	next.Status = constants.StatusConcordance

	result := p.engine.Analyze(next.Records)
	next.Concordance = &result
	return next
}

// Report marks the state ready for rendering. The pipeline itself renders
// nothing: it exposes plain structured data and the report package consumes
// it.
func (p *Pipeline) Report(state entity.PipelineState) entity.PipelineState {
	next := state.Clone()
	next.Status = constants.StatusReporting
	return next
}
