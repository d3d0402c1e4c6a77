package rankgo

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with rankgo-specific helpers.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithK adds the top-K cutoff field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithPage adds a page artifact field to the logger.
func (l *Logger) WithPage(page string) *Logger {
	return &Logger{
		Logger: l.Logger.With("page", page),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogFetch logs a dataset fetch run.
func (l *Logger) LogFetch(ctx context.Context, pages int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fetch failed",
			"pages", pages,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "fetch completed",
			"pages", pages,
		)
	}
}

// LogValidate logs a validation pass.
func (l *Logger) LogValidate(ctx context.Context, kept, dropped int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "validation failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "validation completed",
			"kept", kept,
			"dropped", dropped,
		)
	}
}

// LogRank logs a ranking scan.
func (l *Logger) LogRank(ctx context.Context, k, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ranking failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "ranking completed",
			"k", k,
			"results", results,
		)
	}
}

// LogSubmit logs a grading-service submission.
func (l *Logger) LogSubmit(ctx context.Context, endpoint string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "submission failed",
			"endpoint", endpoint,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "submission completed",
			"endpoint", endpoint,
		)
	}
}
