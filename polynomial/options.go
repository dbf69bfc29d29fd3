package polynomial

import "github.com/YuminosukeSato/regfit/pkg/log"

// Option is a function that configures Regression
type Option func(*Regression)

// WithParallelThreshold sets the sample count above which the normal-equation
// sums run in parallel
func WithParallelThreshold(n int) Option {
	return func(r *Regression) {
		r.parallelThreshold = n
	}
}

// WithLogger replaces the default component logger. A nil logger disables logging.
func WithLogger(logger log.Logger) Option {
	return func(r *Regression) {
		r.logger = logger
	}
}
