package linear

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/regfit/dataset"
	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
	"github.com/YuminosukeSato/regfit/pkg/log"
)

// y = 2x + 1 の厳密なデータ
func exactLine(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]float64{0, 1, 2, 3, 4}, []float64{1, 3, 5, 7, 9})
	require.NoError(t, err)
	return ds
}

func quietOptions() []Option {
	return []Option{WithLogger(nil)}
}

func TestTrain_ConvergesOnExactLine(t *testing.T) {
	var m Model
	require.NoError(t, Train(&m, exactLine(t), 0.01, 5000))

	assert.InDelta(t, 2.0, m.Slope, 1e-2)
	assert.InDelta(t, 1.0, m.Intercept, 1e-2)
	assert.InDelta(t, 11.0, m.Predict(5), 5e-2)
}

func TestTrain_SingleEpochMatchesHandComputation(t *testing.T) {
	ds, err := dataset.New([]float64{1, 2}, []float64{2, 4})
	require.NoError(t, err)

	// pred = 0, grad_slope = -(2*1 + 4*2) = -10, grad_intercept = -6
	var m Model
	require.NoError(t, Train(&m, ds, 0.1, 1))
	assert.InDelta(t, 0.5, m.Slope, 1e-15)
	assert.InDelta(t, 0.3, m.Intercept, 1e-15)
}

func TestTrain_ContinuesFromCurrentModel(t *testing.T) {
	ds := exactLine(t)

	split := Model{}
	require.NoError(t, Train(&split, ds, 0.01, 100))
	require.NoError(t, Train(&split, ds, 0.01, 100))

	whole := Model{}
	require.NoError(t, Train(&whole, ds, 0.01, 200))

	assert.Equal(t, whole, split)
}

func TestTrain_Errors(t *testing.T) {
	ds := exactLine(t)

	tests := []struct {
		name   string
		model  *Model
		ds     *dataset.Dataset
		lr     float64
		epochs int
		check  func(t *testing.T, err error)
	}{
		{
			name: "empty dataset", model: &Model{}, ds: &dataset.Dataset{}, lr: 0.01, epochs: 10,
			check: func(t *testing.T, err error) {
				var de *scierrors.DataError
				assert.True(t, scierrors.As(err, &de))
				assert.True(t, scierrors.Is(err, scierrors.ErrEmptyData))
			},
		},
		{
			name: "nil dataset", model: &Model{}, ds: nil, lr: 0.01, epochs: 10,
			check: func(t *testing.T, err error) {
				assert.True(t, scierrors.Is(err, scierrors.ErrEmptyData))
			},
		},
		{
			name: "zero learning rate", model: &Model{}, ds: ds, lr: 0, epochs: 10,
			check: func(t *testing.T, err error) {
				var ve *scierrors.ValidationError
				require.True(t, scierrors.As(err, &ve))
				assert.Equal(t, "learning_rate", ve.ParamName)
			},
		},
		{
			name: "NaN learning rate", model: &Model{}, ds: ds, lr: math.NaN(), epochs: 10,
			check: func(t *testing.T, err error) {
				var ve *scierrors.ValidationError
				assert.True(t, scierrors.As(err, &ve))
			},
		},
		{
			name: "zero epochs", model: &Model{}, ds: ds, lr: 0.01, epochs: 0,
			check: func(t *testing.T, err error) {
				var ve *scierrors.ValidationError
				require.True(t, scierrors.As(err, &ve))
				assert.Equal(t, "epochs", ve.ParamName)
			},
		},
		{
			name: "nil model", model: nil, ds: ds, lr: 0.01, epochs: 10,
			check: func(t *testing.T, err error) {
				var ve *scierrors.ValueError
				assert.True(t, scierrors.As(err, &ve))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Train(tt.model, tt.ds, tt.lr, tt.epochs)
			require.Error(t, err)
			tt.check(t, err)
			if tt.model != nil {
				assert.Equal(t, Model{}, *tt.model, "model must not change on error")
			}
		})
	}
}

func TestTrain_Deterministic(t *testing.T) {
	cfg := dataset.DefaultSyntheticConfig()
	ds, err := dataset.Generate(cfg)
	require.NoError(t, err)

	var a, b Model
	require.NoError(t, Train(&a, ds, 0.01, 1000))
	require.NoError(t, Train(&b, ds, 0.01, 1000))
	assert.Equal(t, a, b)
}

func TestTrain_ParallelMatchesSequential(t *testing.T) {
	cfg := dataset.DefaultSyntheticConfig()
	cfg.N = 2000
	ds, err := dataset.Generate(cfg)
	require.NoError(t, err)

	var seq, par Model
	require.NoError(t, train(&seq, ds, trainConfig{learningRate: 0.01, epochs: 300, parallelThreshold: cfg.N}))
	require.NoError(t, train(&par, ds, trainConfig{learningRate: 0.01, epochs: 300, parallelThreshold: 1}))

	assert.InDelta(t, seq.Slope, par.Slope, 1e-9)
	assert.InDelta(t, seq.Intercept, par.Intercept, 1e-9)

	var again Model
	require.NoError(t, train(&again, ds, trainConfig{learningRate: 0.01, epochs: 300, parallelThreshold: 1}))
	assert.Equal(t, par, again)
}

func TestRegression_Fit(t *testing.T) {
	reg := NewRegression(append(quietOptions(), WithEpochs(5000))...)
	assert.False(t, reg.IsFitted())

	require.NoError(t, reg.Fit(exactLine(t)))
	assert.True(t, reg.IsFitted())
	assert.InDelta(t, 2.0, reg.Slope(), 1e-2)
	assert.InDelta(t, 1.0, reg.Intercept(), 1e-2)

	y, err := reg.Predict(10)
	require.NoError(t, err)
	assert.InDelta(t, 21.0, y, 0.1)

	preds, err := reg.PredictBatch([]float64{0, 1, 2})
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.InDelta(t, 1.0, preds[0], 1e-2)
	assert.InDelta(t, 5.0, preds[2], 1e-2)

	score, err := reg.Score(exactLine(t))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-4)
}

func TestRegression_Refit(t *testing.T) {
	reg := NewRegression(quietOptions()...)
	require.NoError(t, reg.Fit(exactLine(t)))
	first := reg.Model()

	// 再学習は常にゼロから始まる
	require.NoError(t, reg.Fit(exactLine(t)))
	assert.Equal(t, first, reg.Model())
}

func TestRegression_NotFitted(t *testing.T) {
	reg := NewRegression(quietOptions()...)

	_, err := reg.Predict(1)
	var nf *scierrors.NotFittedError
	require.True(t, scierrors.As(err, &nf))
	assert.Equal(t, "Predict", nf.Method)

	_, err = reg.PredictBatch([]float64{1})
	assert.True(t, scierrors.As(err, &nf))

	_, err = reg.Score(exactLine(t))
	assert.True(t, scierrors.As(err, &nf))
}

func TestRegression_FailedFitKeepsState(t *testing.T) {
	reg := NewRegression(quietOptions()...)

	err := reg.Fit(&dataset.Dataset{})
	require.Error(t, err)
	assert.True(t, scierrors.Is(err, scierrors.ErrEmptyData))
	assert.False(t, reg.IsFitted())

	require.NoError(t, reg.Fit(exactLine(t)))
	fitted := reg.Model()

	require.Error(t, reg.Fit(nil))
	assert.True(t, reg.IsFitted())
	assert.Equal(t, fitted, reg.Model())
}

func TestRegression_InvalidOptions(t *testing.T) {
	reg := NewRegression(append(quietOptions(), WithLearningRate(-1))...)
	var ve *scierrors.ValidationError
	assert.True(t, scierrors.As(reg.Fit(exactLine(t)), &ve))

	reg = NewRegression(append(quietOptions(), WithEpochs(-5))...)
	assert.True(t, scierrors.As(reg.Fit(exactLine(t)), &ve))
}

func TestRegression_LossFunc(t *testing.T) {
	var epochs []int
	var losses []float64
	reg := NewRegression(append(quietOptions(),
		WithEpochs(250),
		WithLogInterval(100),
		WithLossFunc(func(epoch int, loss float64) {
			epochs = append(epochs, epoch)
			losses = append(losses, loss)
		}),
	)...)

	require.NoError(t, reg.Fit(exactLine(t)))
	assert.Equal(t, []int{0, 100, 200}, epochs)
	require.Len(t, losses, 3)
	assert.Greater(t, losses[0], losses[1])
	assert.Greater(t, losses[1], losses[2])

	epochs = nil
	reg = NewRegression(append(quietOptions(),
		WithLogInterval(0),
		WithLossFunc(func(epoch int, _ float64) { epochs = append(epochs, epoch) }),
	)...)
	require.NoError(t, reg.Fit(exactLine(t)))
	assert.Empty(t, epochs)
}

func TestRegression_DivergenceWarns(t *testing.T) {
	var warnings []error
	scierrors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer scierrors.SetWarningHandler(nil)

	reg := NewRegression(append(quietOptions(), WithLearningRate(10), WithEpochs(1000))...)
	require.NoError(t, reg.Fit(exactLine(t)))

	require.Len(t, warnings, 1)
	var ni *scierrors.NumericalInstabilityError
	require.True(t, scierrors.As(warnings[0], &ni))
	assert.Equal(t, "gradient_descent", ni.Operation)

	m := reg.Model()
	assert.True(t, math.IsNaN(m.Slope) || math.IsInf(m.Slope, 0))
	assert.True(t, reg.IsFitted())
}

func TestRegression_Logging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	reg := NewRegression(WithLogger(logger), WithEpochs(200))

	require.NoError(t, reg.Fit(exactLine(t)))

	assert.True(t, logger.ContainsMessage("Training started"))
	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.True(t, logger.ContainsField(log.SamplesKey, 5.0))
	assert.True(t, logger.ContainsField(log.EpochsKey, 200.0))
	assert.True(t, logger.ContainsField(log.EpochKey, 100.0))
}

func TestRegression_GetParams(t *testing.T) {
	params := NewRegression(WithLearningRate(0.5), WithEpochs(10)).GetParams()
	assert.Equal(t, 0.5, params["learning_rate"])
	assert.Equal(t, 10, params["epochs"])
	assert.Equal(t, 100, params["log_interval"])
	assert.Equal(t, DefaultParallelThreshold, params["parallel_threshold"])
}

func TestRegression_ConcurrentPredict(t *testing.T) {
	reg := NewRegression(quietOptions()...)
	require.NoError(t, reg.Fit(exactLine(t)))
	want, err := reg.Predict(2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := reg.Predict(2)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestRegression_PredictBatchParallel(t *testing.T) {
	reg := NewRegression(WithLogger(nil), WithParallelThreshold(10))
	require.NoError(t, reg.Fit(exactLine(t)))

	xs := make([]float64, 1000)
	for i := range xs {
		xs[i] = float64(i) / 10
	}
	preds, err := reg.PredictBatch(xs)
	require.NoError(t, err)
	m := reg.Model()
	for i, x := range xs {
		assert.Equal(t, m.Predict(x), preds[i])
	}
}
