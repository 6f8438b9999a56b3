// Package cli implements the fiducial command-line interface.
//
// Commands generate single markers or batches, audit a key set for
// uniqueness, list and browse the key table, serve the HTTP API and
// manage the artifact cache. The CLI is built on cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - generate: render one marker to PNG or SVG, or print its grid
//   - batch: render many keys into a directory with a manifest
//   - audit: check that no two keys share a pattern
//   - elements: print the key table
//   - browse: pick a key interactively with a live grid preview
//   - serve: run the HTTP API
//   - verify: re-check a batch directory against its manifest
//   - cache, config, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so long operations can report progress.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger stamping each line with "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of a long operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Generated 118 markers (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. The root command does this before every
// subcommand runs, so helpers deep in a command only need the context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
