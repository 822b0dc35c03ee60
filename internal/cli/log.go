// Package cli implements the deckfit command-line interface.
//
// # Commands
//
//   - layout: print the layout descriptor and title range for a card count
//   - render: fit a deck and write SVG, PNG, frame JSON or the fit script
//   - script: emit the standalone fitting script
//   - skins: list the registered skins
//   - inspect: browse layouts and watch the fit passes in a terminal UI
//   - serve: expose the same stages over HTTP
//   - cache: manage the layout and render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// installs log hooks for pipeline and cache events. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger on w at level with "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a stage took once it is done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Fitted 6 cards (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
