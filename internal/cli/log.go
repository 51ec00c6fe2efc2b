// Package cli implements the procflow command-line interface.
//
// The CLI reads process documents (JSON or CSV), lays them out with the
// pipeline runner and writes artifacts. It is built using cobra and logs
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - parse: Validate a document and report its trellis panels
//   - layout: Compute layout JSON for every panel
//   - render: Generate SVG, DOT, PNG, PDF or JSON from a document or a layout
//   - hittest: Query a layout with a selection rectangle
//   - inspect: Browse the edges of a layout interactively
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Configuration
//
// Defaults come from a TOML file (--config, or ~/.config/procflow/config.toml
// when present). Flags override the file.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps as
// "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stageTimer logs the completion of a pipeline stage with its duration.
type stageTimer struct {
	logger *log.Logger
	stage  string
	start  time.Time
}

func startStage(l *log.Logger, stage string) *stageTimer {
	return &stageTimer{logger: l, stage: stage, start: time.Now()}
}

// done logs msg with the stage name, the elapsed time rounded to the
// millisecond and any extra key/value pairs.
func (s *stageTimer) done(msg string, keyvals ...any) {
	kv := append([]any{"stage", s.stage, "elapsed", time.Since(s.start).Round(time.Millisecond)}, keyvals...)
	s.logger.Info(msg, kv...)
}

type ctxKey struct{}

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default when a command runs without it.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
