package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/banshee-data/vfi/internal/config"
	"github.com/banshee-data/vfi/internal/db"
	"github.com/banshee-data/vfi/internal/export"
	"github.com/banshee-data/vfi/internal/fsutil"
	"github.com/banshee-data/vfi/internal/security"
	"github.com/banshee-data/vfi/internal/vfi"
)

type solveFlags struct {
	configPath string
	dbPath     string
	outDir     string
	label      string
	workers    int
	quiet      bool
}

func newSolveCmd() *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the model once and report convergence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "Solver config JSON (defaults to "+config.DefaultConfigPath+" if present)")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite database to record the run in")
	cmd.Flags().StringVar(&f.outDir, "out", "", "Directory to write solution.csv and trace.csv")
	cmd.Flags().StringVar(&f.label, "label", "", "Label stored with the run")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Goroutines per Bellman step (overrides config)")
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "Suppress per-iteration logging")
	return cmd
}

func runSolve(cmd *cobra.Command, f *solveFlags) error {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	for _, path := range []string{f.dbPath, f.outDir} {
		if path == "" {
			continue
		}
		if err := security.ValidateOutputPath(path); err != nil {
			return err
		}
	}
	workers := cfg.GetWorkers()
	if f.workers > 0 {
		workers = f.workers
	}
	defer setQuiet(f.quiet)()

	var store *db.RunStore
	var runID string
	if f.dbPath != "" {
		database, err := db.NewDB(f.dbPath)
		if err != nil {
			return err
		}
		defer database.Close()
		store = db.NewRunStore(database.DB, nil)
		if runID, err = store.InsertRun(f.label, p); err != nil {
			return err
		}
	}

	start := time.Now()
	res, err := vfi.Solve(cmd.Context(), p, vfi.Options{
		Workers:   workers,
		Optimizer: cfg.OptimizerSettings(),
	})
	if err != nil {
		if store != nil {
			status := vfi.StatusError
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				status = vfi.StatusInterrupted
			}
			if ferr := store.FailRun(runID, string(status), time.Since(start)); ferr != nil {
				return errors.Join(err, ferr)
			}
		}
		return err
	}

	out := cmd.OutOrStdout()
	switch res.Status {
	case vfi.StatusConverged:
		fmt.Fprintf(out, "converged after %d iterations, error %.3g (%s)\n", res.Iterations, res.Distance, res.Elapsed)
	default:
		fmt.Fprintf(out, "stopped at max_iter=%d without converging, error %.3g (%s)\n", res.Iterations, res.Distance, res.Elapsed)
	}

	if i, ok := vfi.Feasible(p, res); !ok {
		fmt.Fprintf(out, "warning: policy at k=%.6g leaves the feasible interval\n", res.Capital[i])
	}
	if res.Unconverged > 0 {
		fmt.Fprintf(out, "warning: %d point maximizations hit the optimizer evaluation cap\n", res.Unconverged)
	}

	lo, hi, err := vfi.ComparisonWindow(p)
	if err != nil {
		return err
	}
	cmp, err := vfi.CompareAnalytic(p, res, lo, hi)
	switch {
	case errors.Is(err, vfi.ErrEmptyWindow):
		fmt.Fprintf(out, "closed form comparison skipped: no grid points in [%.4f, %.4f]\n", lo, hi)
	case err != nil:
		return err
	default:
		fmt.Fprintf(out, "closed form on [%.4f, %.4f]: max value error %.3g, max policy error %.3g over %d points\n",
			lo, hi, cmp.MaxValueError, cmp.MaxPolicyError, cmp.Points)
	}

	if store != nil {
		if err := store.SaveResult(runID, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "run %s recorded in %s\n", runID, f.dbPath)
	}
	if f.outDir != "" {
		if err := export.WriteRun(fsutil.OSFileSystem{}, f.outDir, p, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s and %s to %s\n", export.SolutionFile, export.TraceFile, f.outDir)
	}
	return nil
}
