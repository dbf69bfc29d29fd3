// Package polynomial fits y ≈ Σ cᵢ·xⁱ in closed form through the normal
// equation, solved with Gauss-Jordan elimination.
package polynomial

import (
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

const modelName = "PolynomialRegression"

// Regression is a polynomial least-squares estimator of fixed degree.
type Regression struct {
	mu    sync.RWMutex
	state *model.StateManager
	model Model

	degree            int
	parallelThreshold int
	logger            log.Logger
}

var _ model.Regressor = (*Regression)(nil)

// NewRegression creates an unfitted estimator for the given degree. The
// degree is validated by Fit.
func NewRegression(degree int, opts ...Option) *Regression {
	r := &Regression{
		state:             model.NewStateManager(),
		degree:            degree,
		parallelThreshold: DefaultParallelThreshold,
		logger: log.GetLoggerWithName("polynomial").With(
			log.ModelNameKey, modelName,
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fit solves for the coefficients on ds. A failed Fit leaves the estimator
// as it was.
func (r *Regression) Fit(ds *dataset.Dataset) (err error) {
	defer scierrors.Recover(&err, "PolynomialRegression.Fit")

	startTime := time.Now()
	n := ds.Len()

	if r.logger != nil {
		r.logger.Info("Training started",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.SamplesKey, n,
			log.DegreeKey, r.degree,
		)
	}

	coef, err := fit(ds, r.degree, r.parallelThreshold)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("Training failed",
				log.OperationKey, log.OperationFit,
				log.ErrorKey, err,
			)
		}
		return err
	}

	r.mu.Lock()
	r.model = Model{Coefficients: coef}
	r.mu.Unlock()
	r.state.MarkFitted(len(coef), n)

	if r.logger != nil {
		r.logger.Info("Training completed",
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhaseTraining,
			log.DurationMsKey, time.Since(startTime).Milliseconds(),
			log.SamplesKey, n,
			log.FeaturesKey, len(coef),
		)
	}
	return nil
}

// Predict evaluates the fitted polynomial at x.
func (r *Regression) Predict(x float64) (y float64, err error) {
	defer scierrors.Recover(&err, "PolynomialRegression.Predict")

	if err := r.state.RequireFitted(modelName, "Predict"); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.model.Predict(x), nil
}

// PredictBatch evaluates the fitted polynomial at every x, preserving order.
func (r *Regression) PredictBatch(xs []float64) (preds []float64, err error) {
	defer scierrors.Recover(&err, "PolynomialRegression.PredictBatch")

	if err := r.state.RequireFitted(modelName, "PredictBatch"); err != nil {
		return nil, err
	}
	m := r.Model()

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

// Score returns R² of the fitted polynomial on ds.
func (r *Regression) Score(ds *dataset.Dataset) (score float64, err error) {
	defer scierrors.Recover(&err, "PolynomialRegression.Score")

	if err := r.state.RequireFitted(modelName, "Score"); err != nil {
		return 0, err
	}
	if ds.Len() == 0 {
		return 0, scierrors.NewDataError("PolynomialRegression.Score", "dataset has no samples", scierrors.ErrEmptyData)
	}

	preds, err := r.PredictBatch(ds.X())
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(ds.YVec(), mat.NewVecDense(len(preds), preds))
}

// Model returns a copy of the fitted model.
func (r *Regression) Model() Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Model{Coefficients: append([]float64(nil), r.model.Coefficients...)}
}

// Coefficients returns a copy of the fitted coefficients, lowest power first.
func (r *Regression) Coefficients() []float64 {
	return r.Model().Coefficients
}

// Degree returns the configured degree.
func (r *Regression) Degree() int {
	return r.degree
}

// IsFitted reports whether Fit has succeeded at least once.
func (r *Regression) IsFitted() bool {
	return r.state.IsFitted()
}

// GetParams returns the hyperparameters.
func (r *Regression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"degree":             r.degree,
		"parallel_threshold": r.parallelThreshold,
	}
}
