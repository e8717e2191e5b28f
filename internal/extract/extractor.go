package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ismoky07/Octroi-Credit/constants"
	"github.com/ismoky07/Octroi-Credit/internal/entity"
	"github.com/ismoky07/Octroi-Credit/internal/vision"
)

// Config tunes the extraction passes.
type Config struct {
	// Workers bounds the concurrent capability calls during a batch.
	Workers int
	// RequestTimeout bounds each individual capability call; a timeout
	// degrades to a per-document error record, never a batch abort.
	RequestTimeout time.Duration

	NormalTemperature   float32
	RecoveryTemperature float32
	NormalMaxTokens     int
	RecoveryMaxTokens   int
}

// Outcome pairs a record with the raw transcript it came from.
type Outcome struct {
	Record     entity.DocumentRecord
	Transcript string
}

// Extractor turns raster images into DocumentRecords through the external
// vision capability, with quality gating and a one-shot recovery pass.
type Extractor struct {
	transcriber vision.Transcriber
	cfg         Config
	logger      *slog.Logger
}

func NewExtractor(transcriber vision.Transcriber, cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}
	if cfg.NormalTemperature == 0 {
		cfg.NormalTemperature = 0.1
	}
	if cfg.RecoveryTemperature == 0 {
		cfg.RecoveryTemperature = 0.2
	}
	if cfg.NormalMaxTokens <= 0 {
		cfg.NormalMaxTokens = 1200
	}
	if cfg.RecoveryMaxTokens <= 0 {
		cfg.RecoveryMaxTokens = 800
	}
	return &Extractor{transcriber: transcriber, cfg: cfg, logger: logger}
}

// ExtractAll processes every image concurrently (bounded fan-out) and reduces
// the results into a CaseBundle after all calls complete. The error strings
// are per-document notes; they never abort the batch.
func (e *Extractor) ExtractAll(ctx context.Context, imagePaths []string) (entity.CaseBundle, map[string]string, []string) {
	if len(imagePaths) == 0 {
		return entity.CaseBundle{}, map[string]string{}, nil
	}

	outcomes := make([]Outcome, len(imagePaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, path := range imagePaths {
		g.Go(func() error {
			outcomes[i] = e.ExtractImage(gctx, path)
			return nil
		})
	}
	// Workers never return errors; Wait is only the fan-in barrier.
	_ = g.Wait()

	bundle := make(entity.CaseBundle, len(imagePaths))
	transcripts := make(map[string]string, len(imagePaths))
	var errs []string
	for _, outcome := range outcomes {
		rec := outcome.Record
		bundle[rec.SourcePath] = rec
		if outcome.Transcript != "" {
			transcripts[rec.SourcePath] = outcome.Transcript
		}
		if rec.Type == constants.ErrorDocument {
			errs = append(errs, fmt.Sprintf("extraction failed for %s: %s",
				filepath.Base(rec.SourcePath), rec.Extra("erreur")))
		}
	}
	sort.Strings(errs)
	return bundle, transcripts, errs
}

// ExtractImage runs the full per-image protocol: encode, transcribe, parse,
// score, and retry once in recovery mode when the quality tier is FAIBLE.
// It is total: every failure path still yields a record.
func (e *Extractor) ExtractImage(ctx context.Context, imagePath string) Outcome {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		// No image bytes to send: fall back to the filename classifier.
		e.logger.Warn("extract.image.unreadable", "image", filepath.Base(imagePath), "error", err)
		rec := ClassifyFilename(imagePath)
		rec.ExtraFields = map[string]string{"erreur": err.Error()}
		return Outcome{Record: rec}
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	transcript, err := e.transcribe(ctx, encoded, vision.ExtractionPrompt,
		e.cfg.NormalTemperature, e.cfg.NormalMaxTokens)
	if err != nil {
		e.logger.Warn("extract.capability.failed", "image", filepath.Base(imagePath), "error", err)
		return Outcome{Record: ErrorRecord(imagePath, err.Error())}
	}

	parsed := ParseTranscript(transcript)
	quality := EvaluateQuality(parsed)

	if quality.Tier != constants.TierLow {
		rec := ToRecord(imagePath, parsed, quality, constants.ModeNormal)
		e.logger.Info("extract.image.ok",
			"image", filepath.Base(imagePath),
			"type", rec.Type,
			"score", quality.Score,
			"tier", quality.Tier,
		)
		return Outcome{Record: rec, Transcript: transcript}
	}

	e.logger.Info("extract.recovery.start", "image", filepath.Base(imagePath), "score", quality.Score)
	recoveryText, err := e.transcribe(ctx, encoded, vision.RecoveryPrompt,
		e.cfg.RecoveryTemperature, e.cfg.RecoveryMaxTokens)
	if err != nil {
		e.logger.Warn("extract.recovery.failed", "image", filepath.Base(imagePath), "error", err)
		rec := ToRecord(imagePath, parsed, quality, constants.ModeRecoveryFailed)
		return Outcome{Record: rec, Transcript: transcript}
	}

	merged := Merge(parsed, ParseTranscript(recoveryText))
	mergedQuality := EvaluateQuality(merged)
	rec := ToRecord(imagePath, merged, mergedQuality, constants.ModeRecovery)
	e.logger.Info("extract.recovery.ok",
		"image", filepath.Base(imagePath),
		"score_before", quality.Score,
		"score_after", mergedQuality.Score,
	)
	return Outcome{Record: rec, Transcript: transcript}
}

func (e *Extractor) transcribe(ctx context.Context, imageB64, prompt string, temperature float32, maxTokens int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()
	return e.transcriber.Transcribe(callCtx, vision.Request{
		ImageBase64: imageB64,
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
}
