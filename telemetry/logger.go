package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with lanepath-specific context and consistent
// field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
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

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("telemetry: unknown log level %q", s)
}

// WithEngine adds the engine name.
func (l *Logger) WithEngine(name string) *Logger {
	return &Logger{Logger: l.Logger.With("engine", name)}
}

// WithGeneration adds the search generation, the key shared with trace spans.
func (l *Logger) WithGeneration(gen uint16) *Logger {
	return &Logger{Logger: l.Logger.With("generation", gen)}
}

// LogSearch logs the outcome of one search.
func (l *Logger) LogSearch(ctx context.Context, request string, outcome string, positions, expanded int, err error) {
	if err != nil {
		l.DebugContext(ctx, "search failed",
			"request", request,
			"outcome", outcome,
			"expanded", expanded,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "search completed",
		"request", request,
		"positions", positions,
		"expanded", expanded,
	)
}

// LogFailure logs an internal fault with the lane and segment being expanded.
func (l *Logger) LogFailure(ctx context.Context, request string, lane, segment uint32, err error) {
	l.ErrorContext(ctx, "search fault",
		"request", request,
		"lane", lane,
		"segment", segment,
		"error", err,
	)
}

// LogWorker logs a worker lifecycle event.
func (l *Logger) LogWorker(ctx context.Context, event string, queued int, err error) {
	if err != nil {
		l.WarnContext(ctx, "worker "+event,
			"queued", queued,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "worker "+event,
		"queued", queued,
	)
}
