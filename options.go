package hclust

import (
	"log/slog"
	"runtime"
)

// DefaultCacheCapacity bounds the artifact cache. A condensed vector for
// 12,330 observations takes about 304 MiB.
const DefaultCacheCapacity int64 = 1 << 30

type options struct {
	logger           *Logger
	logLevel         *slog.Level
	metricsCollector MetricsCollector
	workers          int
	memoryLimit      int64
	maxRuns          int64
	cacheCapacity    int64
	singleSnapshot   bool
	missingValues    bool
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLogLevel installs a text logger on stderr at the given level. It is
// ignored when WithLogger is also given.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logLevel = &level
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithWorkers sets the number of goroutines used for distance computation.
// Values <= 0 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMemoryLimit caps the bytes reserved for distance buffers, linkage
// working copies and cached artifacts. Runs that would exceed it fail with
// ErrInvalidInput caused by ErrMemoryLimitExceeded. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMaxConcurrentRuns bounds how many computations execute at once.
// Further calls block until a slot is free or their context is done.
// The default is 1.
func WithMaxConcurrentRuns(n int) Option {
	return func(o *options) {
		o.maxRuns = int64(n)
	}
}

// WithCacheCapacity sets the artifact cache capacity in bytes. 0 disables
// memoization.
func WithCacheCapacity(bytes int64) Option {
	return func(o *options) {
		o.cacheCapacity = bytes
	}
}

// WithSingleSnapshot makes the cache hold artifacts of one feature matrix
// only: seeing a new matrix evicts everything derived from previous ones.
// Enabled by default.
func WithSingleSnapshot(enabled bool) Option {
	return func(o *options) {
		o.singleSnapshot = enabled
	}
}

// WithMissingValues lets NaN cells mark missing values: such columns are
// skipped pairwise and a pair without a comparable column is at distance 1.
// The matrix must be built with feature.AllowMissing.
func WithMissingValues() Option {
	return func(o *options) {
		o.missingValues = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		workers:        runtime.GOMAXPROCS(0),
		maxRuns:        1,
		cacheCapacity:  DefaultCacheCapacity,
		singleSnapshot: true,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	if o.logger == nil {
		if o.logLevel != nil {
			o.logger = NewTextLogger(*o.logLevel)
		} else {
			o.logger = NoopLogger()
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.maxRuns <= 0 {
		o.maxRuns = 1
	}
	if o.cacheCapacity < 0 {
		o.cacheCapacity = 0
	}
	return o
}
