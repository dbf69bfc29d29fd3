package dataset

import (
	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
)

// DesignMatrix builds the n×(degree+1) Vandermonde matrix of xs: entry (i, j)
// is xs[i]^j, so column 0 is all ones. Powers are built by running products.
func DesignMatrix(xs []float64, degree int) (*mat.Dense, error) {
	const op = "dataset.DesignMatrix"
	if degree < 0 {
		return nil, scierrors.NewValidationError("degree", "must be non-negative", degree)
	}
	if len(xs) == 0 {
		return nil, scierrors.NewDataError(op, "no x values", scierrors.ErrEmptyData)
	}

	cols := degree + 1
	d := mat.NewDense(len(xs), cols, nil)
	for i, x := range xs {
		row := d.RawRowView(i)
		row[0] = 1
		for j := 1; j < cols; j++ {
			row[j] = row[j-1] * x
		}
	}
	return d, nil
}
