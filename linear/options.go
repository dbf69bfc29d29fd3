package linear

import "github.com/YuminosukeSato/regfit/pkg/log"

// Option is a function that configures Regression
type Option func(*Regression)

// WithLearningRate sets the gradient-descent step size (default 0.01)
func WithLearningRate(lr float64) Option {
	return func(r *Regression) {
		r.learningRate = lr
	}
}

// WithEpochs sets the number of full passes over the data (default 1000)
func WithEpochs(epochs int) Option {
	return func(r *Regression) {
		r.epochs = epochs
	}
}

// WithLogInterval sets how often, in epochs, the training loss is reported
// (default 100). Zero disables loss reporting.
func WithLogInterval(n int) Option {
	return func(r *Regression) {
		r.logInterval = n
	}
}

// WithLossFunc registers an observer for the periodic training loss
func WithLossFunc(fn LossFunc) Option {
	return func(r *Regression) {
		r.lossFunc = fn
	}
}

// WithParallelThreshold sets the sample count above which gradient sums run in parallel
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
