package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	scierrors "github.com/YuminosukeSato/regfit/pkg/errors"
)

// Load reads a two-column CSV file. See Read for the format.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, scierrors.NewDataError("dataset.Load", "cannot open "+path, err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read parses CSV data whose first record is a header. Every following record
// must hold exactly two numeric fields, x then y; surrounding spaces are
// ignored. A file with only a header yields a DataError wrapping ErrEmptyData.
func Read(r io.Reader) (*Dataset, error) {
	const op = "dataset.Read"

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// ヘッダーをスキップする
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, scierrors.NewDataError(op, "missing header", scierrors.ErrEmptyData)
		}
		return nil, csvError(op, err)
	}

	var xs, ys []float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(op, err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) != 2 {
			return nil, scierrors.NewDataErrorAtLine(op, line,
				fmt.Sprintf("expected 2 fields, got %d", len(record)), scierrors.ErrMalformedRecord)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if errX != nil || errY != nil {
			return nil, scierrors.NewDataErrorAtLine(op, line,
				fmt.Sprintf("non-numeric record %q", strings.Join(record, ",")), scierrors.ErrMalformedRecord)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}

	if len(xs) == 0 {
		return nil, scierrors.NewDataError(op, "no samples after header", scierrors.ErrEmptyData)
	}
	return New(xs, ys)
}

func csvError(op string, err error) error {
	var pe *csv.ParseError
	if scierrors.As(err, &pe) {
		return scierrors.NewDataErrorAtLine(op, pe.Line, pe.Err.Error(), scierrors.ErrMalformedRecord)
	}
	return scierrors.NewDataError(op, "read failed", err)
}

// SavePredictions writes ds and preds to path in the format of WritePredictions.
func SavePredictions(path string, ds *Dataset, preds []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return scierrors.NewDataError("dataset.SavePredictions", "cannot create "+path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = scierrors.Wrapf(cerr, "close %s", path)
		}
	}()

	return WritePredictions(f, ds, preds)
}

// WritePredictions writes the header "x,y_true,y_pred" followed by one row per
// sample, each value formatted with %f.
func WritePredictions(w io.Writer, ds *Dataset, preds []float64) error {
	const op = "dataset.WritePredictions"
	if len(preds) != ds.Len() {
		return scierrors.NewDataError(op,
			fmt.Sprintf("got %d predictions for %d samples", len(preds), ds.Len()),
			scierrors.ErrLengthMismatch)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "x,y_true,y_pred"); err != nil {
		return scierrors.Wrap(err, "write header")
	}
	for i, p := range preds {
		x, y := ds.At(i)
		if _, err := fmt.Fprintf(bw, "%f,%f,%f\n", x, y, p); err != nil {
			return scierrors.Wrapf(err, "write row %d", i)
		}
	}
	return scierrors.Wrap(bw.Flush(), "flush predictions")
}

// Save writes ds to path in the format of Write.
func Save(path string, ds *Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return scierrors.NewDataError("dataset.Save", "cannot create "+path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = scierrors.Wrapf(cerr, "close %s", path)
		}
	}()

	return Write(f, ds)
}

// Write writes ds as CSV with the header "x,y". Values use the shortest
// representation that reads back exactly.
func Write(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return scierrors.Wrap(err, "write header")
	}
	for i := 0; i < ds.Len(); i++ {
		x, y := ds.At(i)
		record := []string{
			strconv.FormatFloat(x, 'g', -1, 64),
			strconv.FormatFloat(y, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return scierrors.Wrapf(err, "write row %d", i)
		}
	}
	cw.Flush()
	return scierrors.Wrap(cw.Error(), "flush dataset")
}
