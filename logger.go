package hclust

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with hclust-specific context.
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
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithFingerprint tags the logger with a feature matrix fingerprint.
func (l *Logger) WithFingerprint(fp uint64) *Logger {
	return &Logger{Logger: l.Logger.With("fingerprint", fp)}
}

// WithMethod adds a linkage method field.
func (l *Logger) WithMethod(method string) *Logger {
	return &Logger{Logger: l.Logger.With("method", method)}
}

// LogDistances logs a dissimilarity computation.
func (l *Logger) LogDistances(ctx context.Context, n, columns int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "distance computation failed",
			"n", n,
			"columns", columns,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "distances computed",
		"n", n,
		"columns", columns,
		"duration", d,
	)
}

// LogLinkage logs a merge tree build.
func (l *Logger) LogLinkage(ctx context.Context, n int, method string, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "linkage failed",
			"n", n,
			"method", method,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "merge tree built",
		"n", n,
		"method", method,
		"duration", d,
	)
}

// LogLinkageProgress logs how many merges of a build are done.
func (l *Logger) LogLinkageProgress(ctx context.Context, done, total int) {
	l.DebugContext(ctx, "linkage progress",
		"merges", done,
		"total", total,
	)
}

// LogCut logs a flat cluster extraction.
func (l *Logger) LogCut(ctx context.Context, k, clusters int, threshold float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "flat cut failed",
			"k", k,
			"error", err,
		)
		return
	}
	if clusters < k {
		l.WarnContext(ctx, "tied merges yield fewer clusters than requested",
			"k", k,
			"clusters", clusters,
			"threshold", threshold,
		)
		return
	}
	l.DebugContext(ctx, "flat clusters extracted",
		"k", k,
		"clusters", clusters,
		"threshold", threshold,
	)
}

// LogCache logs an artifact cache lookup.
func (l *Logger) LogCache(ctx context.Context, key string, hit bool) {
	l.DebugContext(ctx, "artifact cache lookup",
		"key", key,
		"hit", hit,
	)
}
