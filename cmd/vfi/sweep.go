package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banshee-data/vfi/internal/config"
	"github.com/banshee-data/vfi/internal/sweep"
	"github.com/banshee-data/vfi/internal/vfi"
)

func newSweepCmd() *cobra.Command {
	var configPath, paramName, values string
	var workers int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Solve once per value of alpha or beta and compare with the closed form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			base, err := cfg.Params()
			if err != nil {
				return err
			}
			param, err := sweep.ParseParam(paramName)
			if err != nil {
				return err
			}
			vals, err := sweep.ParseParamList(values)
			if err != nil {
				return err
			}
			if len(vals) == 0 {
				return fmt.Errorf("--values is required")
			}
			if workers < 1 {
				workers = cfg.GetWorkers()
			}
			defer setQuiet(quiet)()

			runner := sweep.NewRunner()
			results, err := runner.Run(cmd.Context(), base, param, vals, sweep.Options{
				Solver: vfi.Options{
					Workers:   workers,
					Optimizer: cfg.OptimizerSettings(),
					Observer:  vfi.Discard,
				},
			})
			if err != nil {
				st := runner.State()
				return fmt.Errorf("sweep stopped after %d of %d values: %w", st.CompletedCombos, st.TotalCombos, err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\tstatus\titerations\tsteady_state\tvalue_err\tpolicy_err\n", param)
			for _, r := range results {
				fmt.Fprintf(tw, "%g\t%s\t%d\t%.5f\t%.3g\t%.3g\n",
					r.Value, r.Status, r.Iterations, r.SteadyState, r.MaxValueError, r.MaxPolicyError)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Solver config JSON (defaults to "+config.DefaultConfigPath+" if present)")
	cmd.Flags().StringVar(&paramName, "param", "beta", "Parameter to vary: alpha or beta")
	cmd.Flags().StringVar(&values, "values", "", "Comma-separated values or min:max:step")
	cmd.Flags().IntVar(&workers, "workers", 0, "Goroutines per Bellman step (overrides config)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress per-combination logging")
	return cmd
}
