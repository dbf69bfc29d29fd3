// Command regfit fits linear and polynomial regressions to two-column CSV
// data and generates synthetic datasets.
//
// Usage:
//
//	regfit linear   -data FILE [-lr 0.01] [-epochs 1000] [-out predictions.csv] [-plot FILE]
//	regfit poly     -data FILE [-degree 2] [-out predictions.csv] [-plot FILE]
//	regfit generate [-out synthetic.csv] [-n 100] [-min 0] [-max 10] [-slope 1.5]
//	                [-intercept 2] [-noise 1.5] [-seed 42]
//
// Every subcommand accepts -log-level (default from REGFIT_LOG_LEVEL, else
// info) and -log-format (console or json).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regfit/dataset"
	"github.com/YuminosukeSato/regfit/linear"
	"github.com/YuminosukeSato/regfit/metrics"
	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
	"github.com/YuminosukeSato/regfit/pkg/log"
	"github.com/YuminosukeSato/regfit/polynomial"
	"github.com/YuminosukeSato/regfit/report"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError is reported with exitUsage instead of exitFailure.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "linear":
		err = runLinear(args[1:], stdout, stderr)
	case "poly":
		err = runPoly(args[1:], stdout, stderr)
	case "generate":
		err = runGenerate(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "regfit: unknown command %q\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case scierrors.Is(err, flag.ErrHelp):
		return exitOK
	case scierrors.As(err, new(*usageError)):
		fmt.Fprintf(stderr, "regfit: %v\n", err)
		return exitUsage
	default:
		log.LogError(err, "Command failed", log.OperationKey, args[0])
		fmt.Fprintf(stderr, "regfit: %v\n", err)
		return exitFailure
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage: regfit <command> [flags]

commands:
  linear    fit y = slope*x + intercept by gradient descent
  poly      fit a polynomial by the normal equation
  generate  write a synthetic noisy line as CSV

run "regfit <command> -h" for the flags of a command
`)
}

type commonFlags struct {
	logLevel  string
	logFormat string
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	c := &commonFlags{}
	defaultLevel := os.Getenv("REGFIT_LOG_LEVEL")
	if defaultLevel == "" {
		defaultLevel = "info"
	}
	fs.StringVar(&c.logLevel, "log-level", defaultLevel, "log level: debug, info, warn or error (env REGFIT_LOG_LEVEL)")
	fs.StringVar(&c.logFormat, "log-format", "console", "log format: console or json")
	return fs, c
}

func parse(fs *flag.FlagSet, c *commonFlags, args []string, stderr io.Writer) error {
	if err := fs.Parse(args); err != nil {
		if scierrors.Is(err, flag.ErrHelp) {
			return err
		}
		return usagef("%v", err)
	}
	if fs.NArg() > 0 {
		return usagef("unexpected arguments: %v", fs.Args())
	}
	if err := log.SetupLogger(c.logLevel, c.logFormat, stderr); err != nil {
		return usagef("%v", err)
	}
	return nil
}

type fitFlags struct {
	data string
	out  string
	plot string
}

func addFitFlags(fs *flag.FlagSet) *fitFlags {
	f := &fitFlags{}
	fs.StringVar(&f.data, "data", "", "input CSV with a header and x,y columns (required)")
	fs.StringVar(&f.out, "out", "predictions.csv", "output CSV for x,y_true,y_pred")
	fs.StringVar(&f.plot, "plot", "", "optional PNG chart of the fit")
	return f
}

func (f *fitFlags) require() error {
	if f.data == "" {
		return usagef("-data is required")
	}
	return nil
}

func runLinear(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("linear", stderr)
	files := addFitFlags(fs)
	lr := fs.Float64("lr", 0.01, "learning rate")
	epochs := fs.Int("epochs", 1000, "number of epochs")
	if err := parse(fs, common, args, stderr); err != nil {
		return err
	}
	if err := files.require(); err != nil {
		return err
	}

	ds, err := dataset.Load(files.data)
	if err != nil {
		return err
	}

	reg := linear.NewRegression(
		linear.WithLearningRate(*lr),
		linear.WithEpochs(*epochs),
	)
	if err := reg.Fit(ds); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Training complete!")
	fmt.Fprintf(stdout, "Final equation: y = %fx + %f\n", reg.Slope(), reg.Intercept())

	preds, err := reg.PredictBatch(ds.X())
	if err != nil {
		return err
	}
	return finish(stdout, files, ds, preds, "Linear Regression")
}

func runPoly(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("poly", stderr)
	files := addFitFlags(fs)
	degree := fs.Int("degree", 2, "polynomial degree")
	if err := parse(fs, common, args, stderr); err != nil {
		return err
	}
	if err := files.require(); err != nil {
		return err
	}
	if *degree < 0 {
		return usagef("-degree must be non-negative, got %d", *degree)
	}

	ds, err := dataset.Load(files.data)
	if err != nil {
		return err
	}

	reg := polynomial.NewRegression(*degree)
	if err := reg.Fit(ds); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Polynomial coefficients:")
	fmt.Fprint(stdout, reg.Model())

	preds, err := reg.PredictBatch(ds.X())
	if err != nil {
		return err
	}
	return finish(stdout, files, ds, preds, fmt.Sprintf("Polynomial Regression (degree %d)", *degree))
}

// finish prints the metrics and writes the predictions and optional chart.
func finish(stdout io.Writer, files *fitFlags, ds *dataset.Dataset, preds []float64, title string) error {
	m, err := metrics.Evaluate(ds.YVec(), mat.NewVecDense(len(preds), preds))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "MSE: %.4f  RMSE: %.4f  MAE: %.4f  R2: %.4f\n", m.MSE, m.RMSE, m.MAE, m.R2)

	if err := dataset.SavePredictions(files.out, ds, preds); err != nil {
		return err
	}
	log.GetLoggerWithName("cli").Info("Predictions saved", log.PathKey, files.out, log.PredsKey, len(preds))

	if files.plot != "" {
		p, err := report.FitPlot(ds, preds, title)
		if err != nil {
			return err
		}
		if err := report.SavePNG(p, files.plot); err != nil {
			return err
		}
		log.GetLoggerWithName("cli").Info("Plot saved", log.PathKey, files.plot)
	}
	return nil
}

func runGenerate(args []string, stdout, stderr io.Writer) error {
	def := dataset.DefaultSyntheticConfig()
	fs, common := newFlagSet("generate", stderr)
	out := fs.String("out", "synthetic.csv", "output CSV")
	cfg := def
	fs.IntVar(&cfg.N, "n", def.N, "number of points")
	fs.Float64Var(&cfg.Min, "min", def.Min, "smallest x")
	fs.Float64Var(&cfg.Max, "max", def.Max, "largest x")
	fs.Float64Var(&cfg.Slope, "slope", def.Slope, "slope of the true line")
	fs.Float64Var(&cfg.Intercept, "intercept", def.Intercept, "intercept of the true line")
	fs.Float64Var(&cfg.Noise, "noise", def.Noise, "standard deviation of the Gaussian noise")
	fs.Uint64Var(&cfg.Seed, "seed", def.Seed, "random seed")
	if err := parse(fs, common, args, stderr); err != nil {
		return err
	}

	ds, err := dataset.Generate(cfg)
	if err != nil {
		return usagef("%v", err)
	}
	if err := dataset.Save(*out, ds); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Generated data to %s\n", *out)
	return nil
}
