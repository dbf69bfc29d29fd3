package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regfit/core/parallel"
	"github.com/YuminosukeSato/regfit/dataset"
	"github.com/YuminosukeSato/regfit/metrics"
	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
)

// DefaultParallelThreshold is the sample count above which the gradient sums
// are split across CPUs.
const DefaultParallelThreshold = 10000

// Model is a fitted line y = Slope*x + Intercept.
type Model struct {
	Slope     float64
	Intercept float64
}

// Predict returns Slope*x + Intercept.
func (m Model) Predict(x float64) float64 {
	return m.Slope*x + m.Intercept
}

// LossFunc observes the training MSE. epoch is zero-based and the loss is
// measured after that epoch's update.
type LossFunc func(epoch int, loss float64)

type trainConfig struct {
	learningRate      float64
	epochs            int
	logInterval       int
	parallelThreshold int
	onLoss            LossFunc
}

// Train fits m to ds by batch gradient descent on the mean squared error,
// running exactly epochs full passes with a fixed learning rate and starting
// from the current values of m. m is updated in place.
//
// A learning rate that is too large makes the parameters diverge to ±Inf or
// NaN; Train does not detect this and leaves the values in m.
func Train(m *Model, ds *dataset.Dataset, learningRate float64, epochs int) error {
	return train(m, ds, trainConfig{
		learningRate:      learningRate,
		epochs:            epochs,
		parallelThreshold: DefaultParallelThreshold,
	})
}

func validate(m *Model, ds *dataset.Dataset, cfg trainConfig) error {
	if m == nil {
		return scierrors.NewValueError("linear.Train", "model is nil")
	}
	if ds.Len() == 0 {
		return scierrors.NewDataError("linear.Train", "dataset has no samples", scierrors.ErrEmptyData)
	}
	if cfg.learningRate <= 0 || math.IsNaN(cfg.learningRate) || math.IsInf(cfg.learningRate, 0) {
		return scierrors.NewValidationError("learning_rate", "must be a positive finite number", cfg.learningRate)
	}
	if cfg.epochs <= 0 {
		return scierrors.NewValidationError("epochs", "must be positive", cfg.epochs)
	}
	return nil
}

func train(m *Model, ds *dataset.Dataset, cfg trainConfig) error {
	if err := validate(m, ds, cfg); err != nil {
		return err
	}

	xs, ys := ds.X(), ds.Y()
	n := float64(len(xs))

	var yVec *mat.VecDense
	if cfg.onLoss != nil && cfg.logInterval > 0 {
		yVec = mat.NewVecDense(len(ys), ys)
	}

	for epoch := 0; epoch < cfg.epochs; epoch++ {
		slope, intercept := m.Slope, m.Intercept
		grad := parallel.Reduce(len(xs), cfg.parallelThreshold, 2, func(start, end int, acc []float64) {
			for i := start; i < end; i++ {
				e := slope*xs[i] + intercept - ys[i]
				acc[0] += e * xs[i]
				acc[1] += e
			}
		})

		m.Slope = slope - cfg.learningRate*grad[0]/n
		m.Intercept = intercept - cfg.learningRate*grad[1]/n

		if yVec != nil && epoch%cfg.logInterval == 0 {
			loss, err := lossOf(*m, xs, yVec)
			if err != nil {
				return err
			}
			cfg.onLoss(epoch, loss)
		}
	}
	return nil
}

func lossOf(m Model, xs []float64, yVec *mat.VecDense) (float64, error) {
	preds := mat.NewVecDense(len(xs), nil)
	for i, x := range xs {
		preds.SetVec(i, m.Predict(x))
	}
	return metrics.MSE(yVec, preds)
}
