// Package report draws fitted curves against the training data with gonum/plot.
package report

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/regfit/dataset"
	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
)

// Width and Height are the size of saved charts.
const (
	Width  = 8 * vg.Inch
	Height = 6 * vg.Inch
)

// FitPlot returns a chart with the samples of ds as a scatter and the
// predictions preds as a line ordered by x.
func FitPlot(ds *dataset.Dataset, preds []float64, title string) (*plot.Plot, error) {
	const op = "report.FitPlot"
	if ds.Len() == 0 {
		return nil, scierrors.NewDataError(op, "dataset has no samples", scierrors.ErrEmptyData)
	}
	if len(preds) != ds.Len() {
		return nil, scierrors.NewDataError(op,
			fmt.Sprintf("got %d predictions for %d samples", len(preds), ds.Len()),
			scierrors.ErrLengthMismatch)
	}

	truePts := make(plotter.XYs, ds.Len())
	fitPts := make(plotter.XYs, ds.Len())
	for i := range truePts {
		x, y := ds.At(i)
		truePts[i] = plotter.XY{X: x, Y: y}
		fitPts[i] = plotter.XY{X: x, Y: preds[i]}
	}
	sort.SliceStable(fitPts, func(i, j int) bool { return fitPts[i].X < fitPts[j].X })

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "y"

	scatter, err := plotter.NewScatter(truePts)
	if err != nil {
		return nil, scierrors.Wrap(err, "create scatter")
	}
	scatter.Color = plotter.DefaultLineStyle.Color
	p.Add(scatter)
	p.Legend.Add("True Data", scatter)

	line, err := plotter.NewLine(fitPts)
	if err != nil {
		return nil, scierrors.Wrap(err, "create fitted line")
	}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("Fitted", line)

	return p, nil
}

// SavePNG saves p to path. The image format follows the file extension.
func SavePNG(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return scierrors.Wrapf(err, "save plot to %s", path)
	}
	return nil
}

// WritePNG renders p as PNG to w.
func WritePNG(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return scierrors.Wrap(err, "render plot")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return scierrors.Wrap(err, "write plot")
	}
	return nil
}
