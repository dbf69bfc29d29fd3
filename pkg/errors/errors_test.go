package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		sentinel error
	}{
		{
			name:     "empty dataset",
			err:      NewDataError("dataset.New", "no samples", ErrEmptyData),
			wantMsg:  "regfit: dataset.New: invalid data: no samples: empty data",
			sentinel: ErrEmptyData,
		},
		{
			name:     "length mismatch",
			err:      NewDataError("dataset.New", "len(x)=3, len(y)=2", ErrLengthMismatch),
			wantMsg:  "regfit: dataset.New: invalid data: len(x)=3, len(y)=2: x and y lengths differ",
			sentinel: ErrLengthMismatch,
		},
		{
			name:     "malformed record with line",
			err:      NewDataErrorAtLine("dataset.Read", 7, "expected 2 fields, got 3", ErrMalformedRecord),
			wantMsg:  "regfit: dataset.Read: invalid data at line 7: expected 2 fields, got 3: malformed record",
			sentinel: ErrMalformedRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.True(t, Is(tt.err, tt.sentinel))

			var dataErr *DataError
			require.True(t, As(tt.err, &dataErr), "error should be castable to *DataError")

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", tt.err)
			assert.Contains(t, formatted, "errors_test.go")
		})
	}
}

func TestNewSingularMatrixError(t *testing.T) {
	err := NewSingularMatrixError("linalg.Solve", 2, 3)

	assert.Equal(t, "regfit: linalg.Solve: singular matrix: no usable pivot for row 2 of 3", err.Error())
	assert.True(t, Is(err, ErrSingularMatrix))

	var singular *SingularMatrixError
	require.True(t, As(err, &singular))
	assert.Equal(t, 2, singular.Row)
	assert.Equal(t, 3, singular.Size)

	// ラップしても判定できること
	wrapped := Wrap(err, "polynomial fit")
	assert.True(t, Is(wrapped, ErrSingularMatrix))
	assert.False(t, Is(wrapped, ErrEmptyData))
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("linalg.Solve", 3, 2, 0)

	want := "regfit: linalg.Solve: dimension mismatch on axis 0 (rows). Expected 3, got 2"
	assert.Equal(t, want, err.Error())

	var dimErr *DimensionError
	assert.True(t, As(err, &dimErr))
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("PolynomialRegression", "Predict")

	want := "regfit: PolynomialRegression: this model is not fitted yet. Call Fit() before using Predict()"
	assert.Equal(t, want, err.Error())

	var notFittedErr *NotFittedError
	assert.True(t, As(err, &notFittedErr))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("learning_rate", "must be positive", -0.5)

	assert.Equal(t, "regfit: validation failed for parameter 'learning_rate': must be positive (got: -0.5)", err.Error())

	var valErr *ValidationError
	require.True(t, As(err, &valErr))
	assert.Equal(t, "learning_rate", valErr.ParamName)
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("MSE", "empty vector")
	assert.Equal(t, "regfit: MSE: empty vector", err.Error())

	var valErr *ValueError
	assert.True(t, As(err, &valErr))
}

func TestNumericalInstabilityError(t *testing.T) {
	err := NewNumericalInstabilityError("gradient_descent", []float64{math.NaN(), math.Inf(1)}, 1000)

	assert.Equal(t, "regfit: numerical instability detected in gradient_descent at iteration 1000. Values: [NaN, +Inf]", err.Error())

	long := NewNumericalInstabilityError("op", []float64{1, 2, 3, 4, 5, 6, 7}, 0)
	assert.True(t, strings.HasSuffix(long.Error(), "Values: [1, 2, 3, 4, 5, ...]"))
}

func TestCheckNumericalStability(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("op", []float64{1, -2, 0}, 0))
	assert.NoError(t, CheckScalar("op", 3.5, 0))

	err := CheckNumericalStability("op", []float64{1, math.Inf(-1)}, 4)
	var instability *NumericalInstabilityError
	require.True(t, As(err, &instability))
	assert.Equal(t, 4, instability.Iteration)

	assert.Error(t, CheckScalar("op", math.NaN(), 1))
}

func TestWarn(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(New("first"))
	require.Len(t, got, 1)

	var viaZerolog []error
	SetZerologWarnFunc(func(w error) { viaZerolog = append(viaZerolog, w) })
	Warn(New("second"))
	SetZerologWarnFunc(nil)

	assert.Len(t, got, 1, "zerolog func takes precedence over the handler")
	assert.Len(t, viaZerolog, 1)
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Fit", 10, 0)

	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.Contains(t, wrapped.Error(), "in Fit: expected 10, got 0")
}
