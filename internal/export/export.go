// Package export writes solver results as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/vfi/internal/fsutil"
	"github.com/banshee-data/vfi/internal/model"
	"github.com/banshee-data/vfi/internal/vfi"
)

const (
	// SolutionFile is the file name WriteRun uses for the solution table.
	SolutionFile = "solution.csv"
	// TraceFile is the file name WriteRun uses for the iteration trace.
	TraceFile = "trace.csv"
)

// SolutionHeader is the column layout of WriteSolutionCSV.
var SolutionHeader = []string{"capital", "value", "policy", "analytic_value", "analytic_policy"}

// TraceHeader is the column layout of WriteTraceCSV.
var TraceHeader = []string{"iteration", "distance"}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteSolutionCSV writes one row per grid point with the numerical value and
// policy next to the closed-form ones.
func WriteSolutionCSV(w io.Writer, p model.Params, res *vfi.Result) error {
	if len(res.Value) != len(res.Capital) || len(res.Policy) != len(res.Capital) {
		return fmt.Errorf("result length mismatch: %d capital, %d value, %d policy",
			len(res.Capital), len(res.Value), len(res.Policy))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(SolutionHeader); err != nil {
		return err
	}
	for i, k := range res.Capital {
		row := []string{
			formatFloat(k),
			formatFloat(res.Value[i]),
			formatFloat(res.Policy[i]),
			formatFloat(p.AnalyticValue(k)),
			formatFloat(p.AnalyticPolicy(k)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTraceCSV writes the sup-norm distance of every iteration.
func WriteTraceCSV(w io.Writer, trace []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TraceHeader); err != nil {
		return err
	}
	for i, d := range trace {
		if err := cw.Write([]string{strconv.Itoa(i + 1), formatFloat(d)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRun creates dir if needed and writes SolutionFile and TraceFile into it.
func WriteRun(fsys fsutil.FileSystem, dir string, p model.Params, res *vfi.Result) error {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := writeFile(fsys, filepath.Join(dir, SolutionFile), func(w io.Writer) error {
		return WriteSolutionCSV(w, p, res)
	}); err != nil {
		return err
	}
	return writeFile(fsys, filepath.Join(dir, TraceFile), func(w io.Writer) error {
		return WriteTraceCSV(w, res.Trace)
	})
}

func writeFile(fsys fsutil.FileSystem, name string, fill func(io.Writer) error) error {
	f, err := fsys.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	return nil
}

