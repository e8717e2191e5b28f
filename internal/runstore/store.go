package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ismoky07/Octroi-Credit/internal/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	folder        TEXT NOT NULL,
	status        TEXT NOT NULL,
	loaded        INTEGER NOT NULL,
	rejected      INTEGER NOT NULL,
	images        INTEGER NOT NULL,
	analyzed      INTEGER NOT NULL,
	concordant    INTEGER NOT NULL,
	score         REAL NOT NULL,
	error_count   INTEGER NOT NULL,
	duration_ms   INTEGER NOT NULL,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_folder ON runs (folder, created_at);
`

// Run is one persisted pipeline execution.
type Run struct {
	ID         string
	Folder     string
	Status     string
	Loaded     int
	Rejected   int
	Images     int
	Analyzed   int
	Concordant bool
	Score      float64
	ErrorCount int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Store keeps the run history in a single SQLite table, giving dashboards
// their aggregate counters without dragging a server database into the
// pipeline.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (and migrates) the store at path. ":memory:" works for tests.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening runstore %s: %w", path, err)
	}
	// modernc sqlite is single-writer; one connection avoids lock errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating runstore: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun persists the counters of a finished pipeline state.
func (s *Store) RecordRun(ctx context.Context, state entity.PipelineState) error {
	concordant := false
	score := 0.0
	if state.Concordance != nil {
		concordant = state.Concordance.IsConcordant
		score = state.Concordance.ConfidenceScore
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, folder, status, loaded, rejected, images, analyzed,
		                  concordant, score, error_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		state.RunID, state.FolderPath, string(state.Status),
		state.LoadedCount, state.RejectedCount, state.ImageCount, state.AnalyzedCount,
		concordant, score, len(state.Errors), state.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", state.RunID, err)
	}

	s.logger.Info("runstore.record.ok",
		"run_id", state.RunID,
		"folder", state.FolderPath,
		"status", state.Status,
	)
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, folder, status, loaded, rejected, images, analyzed,
		       concordant, score, error_count, duration_ms, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RunsForFolder returns the run history of one applicant folder, newest
// first.
func (s *Store) RunsForFolder(ctx context.Context, folder string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, folder, status, loaded, rejected, images, analyzed,
		       concordant, score, error_count, duration_ms, created_at
		FROM runs WHERE folder = ? ORDER BY created_at DESC, id`, folder)
	if err != nil {
		return nil, fmt.Errorf("listing runs for %s: %w", folder, err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.Folder, &r.Status,
			&r.Loaded, &r.Rejected, &r.Images, &r.Analyzed,
			&r.Concordant, &r.Score, &r.ErrorCount, &durationMS, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
