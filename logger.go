// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package composite

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for composite and all its sub-packages.
// By default, composite produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by composite:
//   - [slog.LevelDebug]: cache rebuilds, subtree moves, clip recomputation
//   - [slog.LevelWarn]: recovered listener panics, rejected reparenting
//
// Example:
//
//	composite.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by composite.
// Sub-packages (layer/, clip/, viewport/, hierarchy/, canvas/) call this to
// share one logger configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// SafeCall runs fn and recovers from a panic raised inside it, logging the
// panic at Warn level under the given source name. It reports whether fn
// returned normally.
//
// Managers use SafeCall to deliver notifications so that one failing
// listener cannot prevent delivery to the others.
func SafeCall(source string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("listener panicked", "source", source, "panic", r)
			ok = false
		}
	}()
	fn()
	return true
}
