package modelcompat

import (
	"log/slog"
	"time"

	"github.com/hupe1980/modelcompat/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	resource         *resource.Controller
	now              func() time.Time
}

// Option configures Explorer construction.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &modelcompat.BasicMetricsCollector{}
//	ex, _ := modelcompat.New(ctx, src, loader, modelcompat.WithMetricsCollector(metrics))
//	// ... use ex ...
//	stats := metrics.GetStats()
//	fmt.Printf("Loads: %d, failed: %d\n", stats.LoadCount, stats.LoadErrors)
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
//	logger := modelcompat.NewJSONLogger(slog.LevelInfo)
//	ex, _ := modelcompat.New(ctx, src, loader, modelcompat.WithLogger(logger))
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

// WithResourceController bounds snapshot fetches with rc.
// The controller may be shared with a blobstore.CachingStore.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resource = rc
	}
}

// WithClock overrides the clock used to stamp views.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		now:              time.Now,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
