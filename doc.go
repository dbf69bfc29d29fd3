// Package regfit fits one-variable regression models to numeric data.
//
// Two estimators are provided:
//
//   - linear: y = slope*x + intercept, trained by batch gradient descent on
//     the mean squared error for a fixed number of epochs.
//   - polynomial: y = Σ cᵢ·xⁱ, solved in closed form from the normal equation
//     with Gauss-Jordan elimination and partial pivoting (core/linalg).
//
// Both consume a dataset.Dataset, an immutable pair of x and y samples that
// can be built in memory, read from a two-column CSV file or generated.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/regfit/dataset"
//	    "github.com/YuminosukeSato/regfit/polynomial"
//	)
//
//	func main() {
//	    ds, err := dataset.Load("data.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    coef, err := polynomial.Fit(ds, 2)
//	    if err != nil {
//	        log.Fatal(err) // SingularMatrixError when the system is underdetermined
//	    }
//	    fmt.Println(coef)
//	}
//
// # Error Handling
//
// Failures are returned as structured errors from pkg/errors (DataError,
// SingularMatrixError, ValidationError, NotFittedError). They carry stack
// traces from cockroachdb/errors and unwrap to sentinels such as
// errors.ErrEmptyData and errors.ErrSingularMatrix for use with errors.Is.
//
// # Logging
//
// The Regression estimators log through pkg/log, which is backed by zerolog.
// Use log.SetupLogger to choose the level and output format. The free
// functions linear.Train, polynomial.Fit and linalg.Solve never log.
//
// # Command Line
//
// cmd/regfit exposes the estimators as the linear, poly and generate
// subcommands.
package regfit
