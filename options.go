package datasetter

import "log/slog"

type options struct {
	name             string
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Instrument and the dataset constructors.
type Option func(*options)

// WithName sets the dataset name used in logs and metric labels.
// Defaults to Metadata().Name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &datasetter.BasicMetricsCollector{}
//	ds := datasetter.Instrument(inner, datasetter.WithMetricsCollector(metrics))
//	// ... use ds ...
//	stats := metrics.GetStats()
//	fmt.Printf("Counts: %d, Avg latency: %dns\n", stats.CountCount, stats.CountAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := datasetter.NewJSONLogger(slog.LevelInfo)
//	ds := datasetter.Instrument(inner, datasetter.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// LoggerFrom returns the logger configured by optFns, or a no-op logger.
// Backends use it to share the options of Instrument.
func LoggerFrom(optFns ...Option) *Logger {
	return applyOptions(optFns).logger
}
