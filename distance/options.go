package distance

import "runtime"

type options struct {
	workers int
	missing bool
	weights []float64
}

// Option configures a Gower computation.
type Option func(*options)

// WithWorkers bounds the number of goroutines filling the output.
// Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMissingValues excludes NaN cells from both the numerator and the
// denominator of each pair's mean. A pair with no comparable column is
// assigned the maximum dissimilarity 1.
func WithMissingValues() Option {
	return func(o *options) {
		o.missing = true
	}
}

// WithWeights sets one non-negative weight per column. The dissimilarity
// becomes the weighted mean of the partial dissimilarities.
func WithWeights(w []float64) Option {
	return func(o *options) {
		o.weights = w
	}
}

func applyOptions(optFns []Option) options {
	o := options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}
