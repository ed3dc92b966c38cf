package datasetter

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger is the slog logger shared by datasets, loaders and the HTTP
// server. Its Log helpers fix the attribute names used for query events.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps handler. A nil handler logs text at info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, handlerOptions(slog.LevelInfo))
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger logs JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, handlerOptions(level)))
}

// NewTextLogger logs logfmt-style text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, handlerOptions(level)))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// handlerOptions renders "elapsed" durations as fractional milliseconds so
// text and JSON output agree.
func handlerOptions(level slog.Leveler) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "elapsed" && a.Value.Kind() == slog.KindDuration {
				return slog.Float64("elapsed_ms", float64(a.Value.Duration().Microseconds())/1000)
			}
			return a
		},
	}
}

// WithDataset adds a dataset field to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// LogCount logs a count query.
func (l *Logger) LogCount(ctx context.Context, filters Filters, count int, elapsed time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "count failed",
			"filters", filters.Any(),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "count completed",
		"filters", filters.Any(),
		"count", count,
		"elapsed", elapsed,
	)
}

// LogCountBy logs a histogram query.
func (l *Logger) LogCountBy(ctx context.Context, facet string, page Page, filters Filters, buckets int, elapsed time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "count-by failed",
			"facet", facet,
			"filters", filters.Any(),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "count-by completed",
		"facet", facet,
		"rows", page.Rows,
		"skip", page.Skip,
		"filters", filters.Any(),
		"buckets", buckets,
		"elapsed", elapsed,
	)
}

// LogSample logs a sample query.
func (l *Logger) LogSample(ctx context.Context, page Page, filters Filters, rows int, elapsed time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "sample failed",
			"filters", filters.Any(),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "sample completed",
		"rows", page.Rows,
		"skip", page.Skip,
		"filters", filters.Any(),
		"returned", rows,
		"elapsed", elapsed,
	)
}

// LogLoad logs loading a table from its source.
func (l *Logger) LogLoad(ctx context.Context, source string, rows int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset load failed",
			"source", source,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dataset loaded",
		"source", source,
		"rows", rows,
		"elapsed", elapsed,
	)
}
