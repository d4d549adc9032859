package fragsync

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/fragsync/model"
)

// Logger wraps slog.Logger with viewer-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithAsset adds an asset field to the logger.
func (l *Logger) WithAsset(ref model.AssetReference) *Logger {
	return &Logger{
		Logger: l.Logger.With("asset", ref.String()),
	}
}

// LogLoad logs a model load.
func (l *Logger) LogLoad(ctx context.Context, ref model.AssetReference, attempts int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "model load failed",
			"asset", ref.String(),
			"attempts", attempts,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "model loaded",
			"asset", ref.String(),
			"attempts", attempts,
		)
	}
}

// LogHighlight logs a host-driven highlight.
func (l *Logger) LogHighlight(ctx context.Context, requested, matched int) {
	l.DebugContext(ctx, "highlight applied",
		"requested", requested,
		"matched_items", matched,
	)
}

// LogGesture logs a gesture forwarded to the host.
func (l *Logger) LogGesture(ctx context.Context, kind string) {
	l.DebugContext(ctx, "gesture forwarded",
		"kind", kind,
	)
}
