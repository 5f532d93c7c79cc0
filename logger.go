package modelcompat

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with modelcompat-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithSeq adds the operation sequence number.
func (l *Logger) WithSeq(seq uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("seq", seq),
	}
}

// LogCatalog logs the catalog load.
func (l *Logger) LogCatalog(ctx context.Context, versions int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "catalog load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "catalog loaded",
			"versions", versions,
		)
	}
}

// LogLoad logs the load of a single snapshot.
func (l *Logger) LogLoad(ctx context.Context, sourceID string, models int, err error) {
	if err != nil {
		l.WarnContext(ctx, "snapshot load failed",
			"source", sourceID,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "snapshot loaded",
			"source", sourceID,
			"models", models,
		)
	}
}

// LogIntersect logs a range intersection.
func (l *Logger) LogIntersect(ctx context.Context, minIdx, maxIdx, results int, failed []string) {
	if len(failed) > 0 {
		l.WarnContext(ctx, "intersection completed with failures",
			"min", minIdx,
			"max", maxIdx,
			"results", results,
			"failed", failed,
		)
	} else {
		l.InfoContext(ctx, "intersection completed",
			"min", minIdx,
			"max", maxIdx,
			"results", results,
		)
	}
}

// LogDifference logs a pairwise difference.
func (l *Logger) LogDifference(ctx context.Context, olderIdx, newerIdx, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "difference failed",
			"older", olderIdx,
			"newer", newerIdx,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "difference completed",
			"older", olderIdx,
			"newer", newerIdx,
			"results", results,
		)
	}
}

// LogSingle logs a single-version view.
func (l *Logger) LogSingle(ctx context.Context, idx, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "single view failed",
			"index", idx,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "single view completed",
			"index", idx,
			"results", results,
		)
	}
}

// LogSuperseded logs a result that was discarded because a newer
// operation had been issued.
func (l *Logger) LogSuperseded(ctx context.Context, seq, latest uint64) {
	l.DebugContext(ctx, "result superseded",
		"seq", seq,
		"latest", latest,
	)
}

// LogExport logs an export.
func (l *Logger) LogExport(ctx context.Context, filename string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"filename", filename,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "export saved",
			"filename", filename,
		)
	}
}
