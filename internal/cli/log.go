// Package cli implements the pantry command-line interface.
//
// Commands load pantry.toml (see package config), build the configured
// registries behind the metadata cache and drive the resolver in package
// deps. The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - resolve: resolve a manifest and write pantry.lock
//   - install: resolve, then download every tarball
//   - info, versions, search: query registries
//   - publish: upload a tarball to a registry
//   - graph: emit the resolved graph as DOT, SVG or JSON
//   - registry list, cache clear|path, lock show: inspect local state
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context; library packages report warnings through
// the func(format, args...) callback returned by warnFunc.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that timestamps every line as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Resolved 42 packages (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// warnFunc adapts l to the warning callback used by deps, catalog and
// override.
func warnFunc(l *log.Logger) func(string, ...any) {
	return func(format string, args ...any) { l.Warnf(format, args...) }
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
