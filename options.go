package fragsync

import (
	"log/slog"

	"github.com/hupe1980/fragsync/loader"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	loaderOptions    []func(*loader.Options)
	pruneOnSwap      bool
}

// Option configures a Viewer.
type Option func(*options)

// WithLoaderOptions passes options through to the Viewer's loader.Loader,
// for example to change the retry bound or the decompressor.
func WithLoaderOptions(optFns ...func(*loader.Options)) Option {
	return func(o *options) {
		o.loaderOptions = append(o.loaderOptions, optFns...)
	}
}

// WithPruneOnSwap controls whether a successful model swap drops selection
// index entries whose GlobalID the new model does not contain.
// Enabled by default; when disabled, stale entries live until the next
// RebuildIndex.
func WithPruneOnSwap(enabled bool) Option {
	return func(o *options) {
		o.pruneOnSwap = enabled
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection (default).
//
// Example with basic metrics:
//
//	metrics := &fragsync.BasicMetricsCollector{}
//	v := fragsync.New(store, engine.New(), scene, host, fragsync.WithMetricsCollector(metrics))
//	// ... use v ...
//	stats := metrics.GetStats()
//	fmt.Printf("Loads: %d, failed attempts: %d\n", stats.LoadCount, stats.AttemptErrors)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := fragsync.NewJSONLogger(slog.LevelInfo)
//	v := fragsync.New(store, eng, scene, host, fragsync.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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
		pruneOnSwap:      true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
