package polynomial

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regfit/core/linalg"
	"github.com/YuminosukeSato/regfit/core/parallel"
	"github.com/YuminosukeSato/regfit/dataset"
	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
)

// DefaultParallelThreshold is the sample count above which the normal-equation
// sums are split across CPUs.
const DefaultParallelThreshold = 10000

// Model is a fitted polynomial. Coefficients[i] multiplies x^i.
type Model struct {
	Coefficients []float64
}

// Degree returns len(Coefficients)-1.
func (m Model) Degree() int {
	return len(m.Coefficients) - 1
}

// Predict evaluates Σ Coefficients[i]·x^i.
func (m Model) Predict(x float64) float64 {
	var y float64
	pow := 1.0
	for _, c := range m.Coefficients {
		y += c * pow
		pow *= x
	}
	return y
}

// Fit computes the least-squares coefficients of a degree-th polynomial by
// solving the normal equation (DᵀD)θ = Dᵀy with Gauss-Jordan elimination,
// where D is the design matrix of ds.
//
// When the system is underdetermined (fewer distinct x values than
// coefficients) or a pivot cannot be found, Fit returns a SingularMatrixError
// and no coefficients.
func Fit(ds *dataset.Dataset, degree int) ([]float64, error) {
	return fit(ds, degree, DefaultParallelThreshold)
}

func fit(ds *dataset.Dataset, degree, threshold int) ([]float64, error) {
	const op = "polynomial.Fit"
	n := ds.Len()
	if n == 0 {
		return nil, scierrors.NewDataError(op, "dataset has no samples", scierrors.ErrEmptyData)
	}
	if degree < 0 {
		return nil, scierrors.NewValidationError("degree", "must be non-negative", degree)
	}

	cols := degree + 1
	if distinct := ds.DistinctX(); distinct < cols {
		return nil, scierrors.Wrapf(
			scierrors.NewSingularMatrixError(op, distinct, cols),
			"degree %d needs %d distinct x values, got %d", degree, cols, distinct)
	}

	design, err := dataset.DesignMatrix(ds.X(), degree)
	if err != nil {
		return nil, err
	}
	xtx, xty := normalEquations(design, ds.Y(), threshold)

	if err := linalg.SolveInPlace(xtx, xty); err != nil {
		return nil, err
	}

	theta := make([]float64, cols)
	for i := range theta {
		theta[i] = xty.AtVec(i)
	}
	return theta, nil
}

// normalEquations returns DᵀD and Dᵀy. Only the upper triangle of DᵀD is
// summed; the lower one is mirrored.
func normalEquations(design *mat.Dense, ys []float64, threshold int) (*mat.Dense, *mat.VecDense) {
	n, cols := design.Dims()
	xtyOff := cols * cols

	sums := parallel.Reduce(n, threshold, xtyOff+cols, func(start, end int, acc []float64) {
		for k := start; k < end; k++ {
			row := design.RawRowView(k)
			for i := 0; i < cols; i++ {
				ri := row[i]
				for j := i; j < cols; j++ {
					acc[i*cols+j] += ri * row[j]
				}
				acc[xtyOff+i] += ri * ys[k]
			}
		}
	})

	xtx := mat.NewDense(cols, cols, nil)
	xty := mat.NewVecDense(cols, nil)
	for i := 0; i < cols; i++ {
		for j := i; j < cols; j++ {
			v := sums[i*cols+j]
			xtx.Set(i, j, v)
			xtx.Set(j, i, v)
		}
		xty.SetVec(i, sums[xtyOff+i])
	}
	return xtx, xty
}

// String renders the model as the "Theta_i = c" lines printed by the CLI.
func (m Model) String() string {
	var b strings.Builder
	for i, c := range m.Coefficients {
		fmt.Fprintf(&b, "Theta_%d = %.4f\n", i, c)
	}
	return b.String()
}
