// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jcodagnone/cinemap/export"
	"github.com/jcodagnone/cinemap/utils/textutils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the runs recorded with --export-db",
}

func openRuns() (*sql.DB, export.Repository, error) {
	dbPath := viper.GetString("db")
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("database not found at %s - run 'nearest --export-db %s' first", dbPath, dbPath)
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo := export.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, err
	}

	return db, repo, nil
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, repo, err := openRuns()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := repo.ListRuns()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		a, b, c, d := strings.Repeat("─", 36), strings.Repeat("─", 4), strings.Repeat("─", 22), strings.Repeat("─", 19)
		fmt.Fprintf(out, "╭─%s─┬─%s─┬─%s─┬─%s─╮\n", a, b, c, d)
		fmt.Fprintf(out, "│ %-36s │ %-4s │ %-22s │ %-19s │\n", "Id", "Year", "Origin", "Created")
		fmt.Fprintf(out, "├─%s─┼─%s─┼─%s─┼─%s─┤\n", a, b, c, d)

		for _, run := range runs {
			origin := fmt.Sprintf("%.5f, %.5f", run.Origin.Lat, run.Origin.Lng)
			fmt.Fprintf(out, "│ %-36s │ %-4s │ %-22s │ %-19s │\n",
				run.ID, run.Year, origin, run.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		fmt.Fprintf(out, "╰─%s─┴─%s─┴─%s─┴─%s─╯\n", a, b, c, d)
		fmt.Fprintf(out, "%s runs\n", textutils.FormatInt(int64(len(runs))))

		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Prints the ranked locations of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, repo, err := openRuns()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := repo.GetRun(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run %s - year %s from %.5f, %.5f\n", run.ID, run.Year, run.Origin.Lat, run.Origin.Lng)

		for _, res := range run.Results {
			fmt.Fprintf(out, "%2d. %8.1f km  %s - %s\n", res.Rank, res.DistanceKm, textutils.Truncate(res.Title, 60), res.Place)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.PersistentFlags().String("db", "cinemap.duckdb", "DuckDB file written by --export-db")
}
