package docload

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// stderrLogCap bounds how much of a failing command's stderr ends up in logs;
// pdftoppm can dump the whole damaged xref table on a corrupt input.
const stderrLogCap = 8 << 10

type execRunner struct {
	logger *slog.Logger
}

func newExecRunner(logger *slog.Logger) execRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return execRunner{logger: logger}
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		r.logger.Error("docload.exec.failed",
			"bin", name,
			"args", args,
			"elapsed_ms", elapsed,
			"error", err,
			"stderr", clip(stderr.Bytes(), stderrLogCap),
		)
		return stdout.Bytes(), stderr.Bytes(), err
	}

	r.logger.Debug("docload.exec.done",
		"bin", name,
		"args", args,
		"elapsed_ms", elapsed,
		"stdout_bytes", stdout.Len(),
	)
	return stdout.Bytes(), stderr.Bytes(), nil
}

func clip(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + " [clipped]"
}
