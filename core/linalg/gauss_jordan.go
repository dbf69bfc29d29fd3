// Package linalg solves small dense linear systems with Gauss-Jordan
// elimination and partial pivoting.
package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
)

// PivotEpsilon is the only singularity threshold used by the solver. A
// diagonal entry smaller than this in magnitude triggers a row search, and a
// candidate row is usable only if its entry is strictly larger.
const PivotEpsilon = 1e-9

// Solve solves a·θ = b without modifying its arguments.
func Solve(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, scierrors.NewDimensionError("linalg.Solve", r, c, 1)
	}
	if b.Len() != r {
		return nil, scierrors.NewDimensionError("linalg.Solve", r, b.Len(), 0)
	}

	aa := mat.DenseCopyOf(a)
	bb := mat.VecDenseCopyOf(b)
	if err := SolveInPlace(aa, bb); err != nil {
		return nil, err
	}
	return bb, nil
}

// SolveInPlace reduces a to the identity and leaves the solution in b.
//
// For each row i the pivot a[i][i] is replaced, when smaller than
// PivotEpsilon, by the first row below whose entry in column i exceeds
// PivotEpsilon. Row i is then normalised and column i is eliminated from every
// other row. When no usable pivot exists a SingularMatrixError is returned and
// the contents of a and b are unspecified.
func SolveInPlace(a *mat.Dense, b *mat.VecDense) error {
	m, c := a.Dims()
	if m != c {
		return scierrors.NewDimensionError("linalg.SolveInPlace", m, c, 1)
	}
	if b.Len() != m {
		return scierrors.NewDimensionError("linalg.SolveInPlace", m, b.Len(), 0)
	}

	for i := 0; i < m; i++ {
		if math.Abs(a.At(i, i)) < PivotEpsilon {
			k := findPivot(a, i)
			if k < 0 {
				return scierrors.NewSingularMatrixError("linalg.SolveInPlace", i, m)
			}
			swapRows(a, b, i, k)
		}

		rowI := a.RawRowView(i)
		pivot := rowI[i]
		for j := range rowI {
			rowI[j] /= pivot
		}
		b.SetVec(i, b.AtVec(i)/pivot)

		bi := b.AtVec(i)
		for k := 0; k < m; k++ {
			if k == i {
				continue
			}
			rowK := a.RawRowView(k)
			f := rowK[i]
			if f == 0 {
				continue
			}
			for j := range rowK {
				rowK[j] -= f * rowI[j]
			}
			b.SetVec(k, b.AtVec(k)-f*bi)
		}
	}
	return nil
}

// findPivot returns the first row below i with a usable entry in column i, or -1.
func findPivot(a *mat.Dense, i int) int {
	m, _ := a.Dims()
	for k := i + 1; k < m; k++ {
		if math.Abs(a.At(k, i)) > PivotEpsilon {
			return k
		}
	}
	return -1
}

func swapRows(a *mat.Dense, b *mat.VecDense, i, k int) {
	ri, rk := a.RawRowView(i), a.RawRowView(k)
	for j := range ri {
		ri[j], rk[j] = rk[j], ri[j]
	}
	bi, bk := b.AtVec(i), b.AtVec(k)
	b.SetVec(i, bk)
	b.SetVec(k, bi)
}
