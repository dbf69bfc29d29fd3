// Package dataset holds the one-variable training data consumed by the
// estimators, together with CSV I/O and synthetic data generation.
package dataset

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
)

// Dataset is an immutable, index-aligned pair of x and y samples.
// The zero value is an empty dataset, which the estimators reject.
type Dataset struct {
	x []float64
	y []float64
}

// New validates and copies xs and ys into a new Dataset.
func New(xs, ys []float64) (*Dataset, error) {
	const op = "dataset.New"
	if len(xs) == 0 && len(ys) == 0 {
		return nil, scierrors.NewDataError(op, "dataset has no samples", scierrors.ErrEmptyData)
	}
	if len(xs) != len(ys) {
		return nil, scierrors.NewDataError(op,
			fmt.Sprintf("got %d x values and %d y values", len(xs), len(ys)),
			scierrors.ErrLengthMismatch)
	}
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			return nil, scierrors.NewDataError(op, fmt.Sprintf("sample %d is not finite", i), scierrors.ErrNonFinite)
		}
	}

	return &Dataset{
		x: append([]float64(nil), xs...),
		y: append([]float64(nil), ys...),
	}, nil
}

// Len returns the number of samples. A nil Dataset has length 0.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.x)
}

// At returns the i-th sample.
func (d *Dataset) At(i int) (x, y float64) {
	return d.x[i], d.y[i]
}

// X returns a copy of the x values.
func (d *Dataset) X() []float64 {
	if d == nil {
		return nil
	}
	return append([]float64(nil), d.x...)
}

// Y returns a copy of the y values.
func (d *Dataset) Y() []float64 {
	if d == nil {
		return nil
	}
	return append([]float64(nil), d.y...)
}

// YVec returns the targets as a fresh vector. It panics on an empty dataset,
// as gonum does for zero-length vectors.
func (d *Dataset) YVec() *mat.VecDense {
	return mat.NewVecDense(d.Len(), d.Y())
}

// Summary holds descriptive statistics of a dataset.
type Summary struct {
	N       int
	MeanX   float64
	StdDevX float64
	MeanY   float64
	StdDevY float64
	MinX    float64
	MaxX    float64
}

// Summary computes descriptive statistics. Standard deviations are the
// unbiased estimates and are NaN for a single sample.
func (d *Dataset) Summary() Summary {
	s := Summary{N: d.Len()}
	if s.N == 0 {
		return s
	}
	s.MeanX, s.StdDevX = stat.MeanStdDev(d.x, nil)
	s.MeanY, s.StdDevY = stat.MeanStdDev(d.y, nil)
	s.MinX, s.MaxX = d.x[0], d.x[0]
	for _, v := range d.x[1:] {
		s.MinX = math.Min(s.MinX, v)
		s.MaxX = math.Max(s.MaxX, v)
	}
	return s
}

// DistinctX returns the number of distinct x values.
func (d *Dataset) DistinctX() int {
	if d == nil {
		return 0
	}
	seen := make(map[float64]struct{}, d.Len())
	for _, v := range d.x {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
