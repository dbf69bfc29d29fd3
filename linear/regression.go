// Package linear fits the one-variable line y = slope*x + intercept by batch
// gradient descent on the mean squared error.
//
// Train is the bare algorithm operating on a Model value. Regression wraps it
// as an estimator with functional options, fitted-state tracking and
// structured logging:
//
//	reg := linear.NewRegression(
//		linear.WithLearningRate(0.01),
//		linear.WithEpochs(1000),
//	)
//	if err := reg.Fit(ds); err != nil {
//		return err
//	}
//	y, err := reg.Predict(3.5)
package linear

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regfit/core/model"
	"github.com/YuminosukeSato/regfit/core/parallel"
	"github.com/YuminosukeSato/regfit/dataset"
	"github.com/YuminosukeSato/regfit/metrics"
	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
	"github.com/YuminosukeSato/regfit/pkg/log"
)

const modelName = "LinearRegression"

// Regression is a gradient-descent linear regression estimator.
type Regression struct {
	mu    sync.RWMutex
	state *model.StateManager
	model Model

	learningRate      float64
	epochs            int
	logInterval       int
	parallelThreshold int
	lossFunc          LossFunc
	logger            log.Logger
}

var _ model.Regressor = (*Regression)(nil)

// NewRegression creates an unfitted estimator. Without options it trains for
// 1000 epochs at learning rate 0.01 and reports the loss every 100 epochs.
func NewRegression(opts ...Option) *Regression {
	r := &Regression{
		state:             model.NewStateManager(),
		learningRate:      0.01,
		epochs:            1000,
		logInterval:       100,
		parallelThreshold: DefaultParallelThreshold,
		logger: log.GetLoggerWithName("linear").With(
			log.ModelNameKey, modelName,
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fit trains a fresh model from slope = intercept = 0. On error the estimator
// keeps its previous state. If training diverges, a NumericalInstabilityError
// is raised through errors.Warn and the non-finite parameters are kept.
func (r *Regression) Fit(ds *dataset.Dataset) (err error) {
	defer scierrors.Recover(&err, "LinearRegression.Fit")

	startTime := time.Now()
	n := ds.Len()

	if r.logger != nil {
		r.logger.Info("Training started",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, n,
			log.EpochsKey, r.epochs,
			log.LearningRateKey, r.learningRate,
		)
	}

	var m Model
	var lastLoss float64
	cfg := trainConfig{
		learningRate:      r.learningRate,
		epochs:            r.epochs,
		logInterval:       r.logInterval,
		parallelThreshold: r.parallelThreshold,
	}
	if r.lossFunc != nil || r.logger != nil {
		cfg.onLoss = func(epoch int, loss float64) {
			lastLoss = loss
			if r.logger != nil {
				r.logger.Debug("Epoch completed",
					log.EpochKey, epoch,
					log.LossKey, finiteOrZero(loss),
				)
			}
			if r.lossFunc != nil {
				r.lossFunc(epoch, loss)
			}
		}
	}

	if err := train(&m, ds, cfg); err != nil {
		return err
	}

	if err := scierrors.CheckNumericalStability("gradient_descent", []float64{m.Slope, m.Intercept}, r.epochs); err != nil {
		scierrors.Warn(err)
	}
	if finalLoss, lerr := lossOf(m, ds.X(), ds.YVec()); lerr == nil {
		lastLoss = finalLoss
	}

	r.mu.Lock()
	r.model = m
	r.mu.Unlock()
	r.state.MarkFitted(1, n)

	if r.logger != nil {
		r.logger.Info("Training completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.DurationMsKey, time.Since(startTime).Milliseconds(),
			log.SamplesKey, n,
			log.LossKey, finiteOrZero(lastLoss),
		)
	}
	return nil
}

// Predict returns the fitted line evaluated at x.
func (r *Regression) Predict(x float64) (y float64, err error) {
	defer scierrors.Recover(&err, "LinearRegression.Predict")

	if err := r.state.RequireFitted(modelName, "Predict"); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model.Predict(x), nil
}

// PredictBatch evaluates the fitted line at every x, preserving order.
func (r *Regression) PredictBatch(xs []float64) (preds []float64, err error) {
	defer scierrors.Recover(&err, "LinearRegression.PredictBatch")

	if err := r.state.RequireFitted(modelName, "PredictBatch"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	m := r.model
	r.mu.RUnlock()

	preds = make([]float64, len(xs))
	parallel.ParallelizeWithThreshold(len(xs), r.parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			preds[i] = m.Predict(xs[i])
		}
	})

	if r.logger != nil {
		r.logger.Debug("Prediction completed",
			log.OperationKey, log.OperationPredict,
			log.PhaseKey, log.PhaseInference,
			log.PredsKey, len(preds),
		)
	}
	return preds, nil
}

// Score returns the coefficient of determination R² of the fitted line on ds.
func (r *Regression) Score(ds *dataset.Dataset) (score float64, err error) {
	defer scierrors.Recover(&err, "LinearRegression.Score")

	if err := r.state.RequireFitted(modelName, "Score"); err != nil {
		return 0, err
	}
	if ds.Len() == 0 {
		return 0, scierrors.NewDataError("LinearRegression.Score", "dataset has no samples", scierrors.ErrEmptyData)
	}

	preds, err := r.PredictBatch(ds.X())
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(ds.YVec(), mat.NewVecDense(len(preds), preds))
}

// Model returns a copy of the fitted parameters. It is the zero Model before Fit.
func (r *Regression) Model() Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model
}

// Slope returns the fitted slope.
func (r *Regression) Slope() float64 {
	return r.Model().Slope
}

// Intercept returns the fitted intercept.
func (r *Regression) Intercept() float64 {
	return r.Model().Intercept
}

// IsFitted reports whether Fit has succeeded at least once.
func (r *Regression) IsFitted() bool {
	return r.state.IsFitted()
}

// GetParams returns the hyperparameters.
func (r *Regression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate":      r.learningRate,
		"epochs":             r.epochs,
		"log_interval":       r.logInterval,
		"parallel_threshold": r.parallelThreshold,
	}
}

// zerolog and encoding/json cannot represent NaN or ±Inf as JSON numbers.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
