package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banshee-data/vfi/internal/db"
	"github.com/banshee-data/vfi/internal/model"
	"github.com/banshee-data/vfi/internal/security"
)

// runDetail is what `runs show` prints.
type runDetail struct {
	*db.RunRecord
	Params   model.Params       `json:"params"`
	Trace    []float64          `json:"trace,omitempty"`
	Solution []db.SolutionPoint `json:"solution,omitempty"`
}

// openExistingDB validates path like solve does and refuses to create a
// database that is not already there.
func openExistingDB(path string) (*db.DB, *db.RunStore, error) {
	if err := security.ValidateOutputPath(path); err != nil {
		return nil, nil, err
	}
	database, err := db.OpenExisting(path)
	if err != nil {
		return nil, nil, err
	}
	return database, db.NewRunStore(database.DB, nil), nil
}

func newRunsCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded runs",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "vfi.db", "SQLite database holding the runs")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, store, err := openExistingDB(dbPath)
			if err != nil {
				return err
			}
			defer database.Close()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "run_id\tlabel\tstatus\titerations\tdistance\tstarted_at")
			for _, r := range runs {
				dist := "-"
				if r.FinalDistance != nil {
					dist = fmt.Sprintf("%.3g", *r.FinalDistance)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					r.RunID, r.Label, r.Status, r.Iterations, dist, r.StartedAt.Format("2006-01-02 15:04:05"))
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 for all)")

	var withSolution bool
	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a run with its parameters and trace as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, store, err := openExistingDB(dbPath)
			if err != nil {
				return err
			}
			defer database.Close()

			rec, err := store.GetRun(args[0])
			if err != nil {
				return err
			}
			detail := runDetail{RunRecord: rec}
			if detail.Params, err = rec.DecodeParams(); err != nil {
				return err
			}
			if detail.Trace, err = store.GetTrace(rec.RunID); err != nil {
				return err
			}
			if withSolution {
				if detail.Solution, err = store.GetSolution(rec.RunID); err != nil {
					return err
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(detail)
		},
	}
	show.Flags().BoolVar(&withSolution, "solution", false, "Include the value and policy at every grid point")

	del := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run with its trace and solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, store, err := openExistingDB(dbPath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := store.DeleteRun(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted run %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}
