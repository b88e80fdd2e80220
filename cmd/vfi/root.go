package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/vfi/internal/config"
	"github.com/banshee-data/vfi/internal/monitoring"
	"github.com/banshee-data/vfi/internal/version"
)

// newRootCmd builds the command tree. Each call returns fresh flag state so
// tests can execute commands independently.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vfi",
		Short: "Value function iteration for the deterministic growth model.",
		Long: `vfi solves the neoclassical growth model with log utility, Cobb-Douglas ` +
			`production and full depreciation by iterating the Bellman operator on a ` +
			`capital grid, and compares the result with the closed-form solution.`,
		SilenceUsage: true,
	}
	root.AddCommand(newSolveCmd(), newSweepCmd(), newRunsCmd(), newMigrateCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadConfig returns the config at path. An empty path falls back to
// config.DefaultConfigPath when it exists, then to the built-in defaults.
func loadConfig(path string) (*config.SolverConfig, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); err != nil {
			return config.DefaultSolverConfig(), nil
		}
		path = config.DefaultConfigPath
	}
	return config.LoadSolverConfig(path)
}

// setQuiet mutes per-iteration logging, returning a func that restores it.
func setQuiet(quiet bool) func() {
	original := monitoring.Logf
	if quiet {
		monitoring.SetLogger(nil)
	}
	return func() { monitoring.SetLogger(original) }
}
