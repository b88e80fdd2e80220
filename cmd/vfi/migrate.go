package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/vfi/internal/db"
	"github.com/banshee-data/vfi/internal/security"
)

func newMigrateCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the run database schema",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "vfi.db", "SQLite database to migrate")

	// withDB opens dbPath without applying migrations so the subcommands
	// control the schema version themselves. Only up may create the file.
	withDB := func(create bool, fn func(database *db.DB) error) error {
		if err := security.ValidateOutputPath(dbPath); err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); err != nil && !create {
			return fmt.Errorf("%w: %s", db.ErrDatabaseNotFound, dbPath)
		}
		database, err := db.OpenDB(dbPath)
		if err != nil {
			return err
		}
		defer database.Close()
		return fn(database)
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(true, func(database *db.DB) error {
				if err := database.MigrateUp(db.MigrationsFS()); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), database)
			})
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(false, func(database *db.DB) error {
				if err := database.MigrateDown(db.MigrationsFS()); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), database)
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(false, func(database *db.DB) error {
				return printVersion(cmd.OutOrStdout(), database)
			})
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func printVersion(w io.Writer, database *db.DB) error {
	version, dirty, err := database.MigrateVersion(db.MigrationsFS())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "schema version %d (dirty: %v)\n", version, dirty)
	return nil
}
