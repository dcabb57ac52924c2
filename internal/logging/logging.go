// Package logging builds the process-wide slog.Logger from the console/file
// sink settings in internal/config, matching the teacher's use of slog for
// every server-side log line (internal/ws/handler.go,
// internal/httpapi/server.go) but adding the level gating and drop-on-full
// sink this server's concurrency model requires: the logger must refuse to
// block on a full buffer.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/cdecpgl/pmms-go/internal/config"
)

// New builds the process-wide logger from cfg.Log. Console and file sinks
// are independently enabled and leveled; when both are disabled, records go
// to io.Discard (debug calls short-circuit on level; info and above are
// still formatted before being discarded).
func New(cfg config.Log) (*slog.Logger, io.Closer, error) {
	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if cfg.EnableConsoleLog {
		handlers = append(handlers, slog.NewTextHandler(newDroppingWriter(os.Stderr), &slog.HandlerOptions{
			Level: parseLevel(cfg.ConsoleLogLevel),
		}))
	}

	if cfg.EnableFileLog {
		f, err := os.OpenFile(cfg.FileLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		handlers = append(handlers, slog.NewJSONHandler(newDroppingWriter(f), &slog.HandlerOptions{
			Level: parseLevel(cfg.FileLogLevel),
		}))
	}

	if len(handlers) == 0 {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closer, nil
	}
	return slog.New(fanoutHandler{handlers: handlers}), closer, nil
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warning":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// fanoutHandler writes one record to every configured sink. A sink that
// errors never blocks or panics the others; droppingWriter already absorbs
// backpressure below the handler.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		_ = h.Handle(ctx, record.Clone())
	}
	return nil
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return fanoutHandler{handlers: next}
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return fanoutHandler{handlers: next}
}
