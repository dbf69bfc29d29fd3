package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regfit/pkg/errors"
)

type metricCase struct {
	name    string
	yTrue   *mat.VecDense
	yPred   *mat.VecDense
	want    float64
	wantErr bool
}

func runMetric(t *testing.T, fn func(a, b *mat.VecDense) (float64, error), tests []metricCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fn(tt.yTrue, tt.yPred)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestMSE(t *testing.T) {
	runMetric(t, MSE, []metricCase{
		{
			name:  "perfect prediction",
			yTrue: mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			yPred: mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			want:  0,
		},
		{
			name:  "simple case",
			yTrue: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred: mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:  0.25,
		},
		{
			name:  "larger errors",
			yTrue: mat.NewVecDense(3, []float64{10, 20, 30}),
			yPred: mat.NewVecDense(3, []float64{12, 18, 33}),
			want:  17.0 / 3.0,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred:   mat.NewVecDense(2, []float64{1, 2}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	})
}

func TestRMSE(t *testing.T) {
	runMetric(t, RMSE, []metricCase{
		{
			name:  "simple case",
			yTrue: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred: mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:  0.5,
		},
		{
			name:  "larger errors",
			yTrue: mat.NewVecDense(3, []float64{10, 20, 30}),
			yPred: mat.NewVecDense(3, []float64{12, 18, 33}),
			want:  math.Sqrt(17.0 / 3.0),
		},
	})
}

func TestMAE(t *testing.T) {
	runMetric(t, MAE, []metricCase{
		{
			name:  "mixed signs",
			yTrue: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred: mat.NewVecDense(4, []float64{2, 2, 1, 5}),
			want:  1.0,
		},
		{
			name:    "nil prediction",
			yTrue:   mat.NewVecDense(1, []float64{1}),
			yPred:   nil,
			wantErr: true,
		},
	})
}

func TestR2Score(t *testing.T) {
	runMetric(t, R2Score, []metricCase{
		{
			name:  "perfect prediction",
			yTrue: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			want:  1.0,
		},
		{
			name:  "mean prediction",
			yTrue: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred: mat.NewVecDense(4, []float64{2.5, 2.5, 2.5, 2.5}),
			want:  0.0,
		},
		{
			// RSS = 0.25*4 = 1, TSS = 5
			name:  "partial fit",
			yTrue: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred: mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:  0.8,
		},
		{
			name:    "constant target",
			yTrue:   mat.NewVecDense(3, []float64{2, 2, 2}),
			yPred:   mat.NewVecDense(3, []float64{1, 2, 3}),
			wantErr: true,
		},
	})
}

func TestErrorKinds(t *testing.T) {
	_, err := MSE(&mat.VecDense{}, &mat.VecDense{})
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))

	_, err = MAE(mat.NewVecDense(2, nil), mat.NewVecDense(3, nil))
	var de *errors.DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 2, de.Expected)
	assert.Equal(t, 3, de.Got)
}

func TestEvaluate(t *testing.T) {
	r, err := Evaluate(
		mat.NewVecDense(4, []float64{1, 2, 3, 4}),
		mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, r.MSE, 1e-12)
	assert.InDelta(t, 0.5, r.RMSE, 1e-12)
	assert.InDelta(t, 0.5, r.MAE, 1e-12)
	assert.InDelta(t, 0.8, r.R2, 1e-12)

	r, err = Evaluate(mat.NewVecDense(2, []float64{3, 3}), mat.NewVecDense(2, []float64{3, 3}))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(r.R2))

	_, err = Evaluate(&mat.VecDense{}, &mat.VecDense{})
	assert.Error(t, err)
}

func BenchmarkMSE(b *testing.B) {
	n := 10000
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(i))
		yPred.SetVec(i, float64(i)+0.5)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MSE(yTrue, yPred)
	}
}
