package mng

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/mng/cms"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with decoders logging from any
// goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for mng and all its sub-packages.
// By default, mng produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior). Decoders
// pick up the logger when they are created.
//
// Log levels used by mng:
//   - [slog.LevelDebug]: chunk, object and frame diagnostics
//   - [slog.LevelInfo]: stream lifecycle (header seen, playback ended)
//   - [slog.LevelWarn]: skipped chunks and failed animation steps
//   - [slog.LevelError]: fatal stream errors
//
// Every record carries a "component" attribute naming the stage that
// produced it (reader, chunk, object, display, delta, codec).
//
// Example:
//
//	mng.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	cms.SetLogger(l)
}

// Logger returns the current logger used by mng.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
