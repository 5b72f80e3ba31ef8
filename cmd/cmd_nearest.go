// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/cinemap/export"
	"github.com/jcodagnone/cinemap/geocoding"
	"github.com/jcodagnone/cinemap/nearest"
	"github.com/jcodagnone/cinemap/render"
	"github.com/jcodagnone/cinemap/spatial"
	"github.com/jcodagnone/cinemap/utils/textutils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Draws the filming locations nearest to a point",
	Long: `Reads the listing, geocodes the filming locations of the titles released in
--year and writes a map with the ones nearest to --point. Missing values are
asked for on the terminal.

$ cinemap nearest --year 2001 --point "49.83826, 24.02324"
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		year := viper.GetString("year")
		if year == "" {
			var err error

			year, err = prompt(in, out, "Please enter a year you would like to have a map for: ")
			if err != nil {
				return err
			}
		}

		point := viper.GetString("point")
		if point == "" {
			var err error

			point, err = prompt(in, out, "Please enter your location (format: lat, long): ")
			if err != nil {
				return err
			}
		}

		origin, err := spatial.ParsePoint(point)
		if err != nil {
			return err
		}

		geocoder, err := newGeocoder(cmd.Context())
		if err != nil {
			return fmt.Errorf("setting up geocoder: %w", err)
		}

		fmt.Fprintln(out, "Map is generating...")

		result, err := nearest.Run(cmd.Context(), geocoder, &nearest.Options{
			ListingPath: viper.GetString("listing"),
			Year:        year,
			Origin:      origin,
			Limit:       viper.GetInt("limit"),
			Listing:     listingOptions(),
			Progress:    true,
			Verbose:     viper.GetBool("verbose"),
		})
		if err != nil {
			return err
		}

		logMetrics(result, geocoder, viper.GetInt("limit"))

		fmt.Fprintln(out, "Please wait...")

		m := render.New(result.Origin, result.Entries)
		m.Title = fmt.Sprintf("Filming locations of %s", result.Year)

		mapPath := viper.GetString("out")
		if err := m.Save(mapPath); err != nil {
			return err
		}

		if dbPath := viper.GetString("export-db"); dbPath != "" {
			if err := exportRun(dbPath, result); err != nil {
				return err
			}
		}

		fmt.Fprintf(out, "Finished. Please have look at the map - %s\n", mapPath)

		return nil
	},
}

func prompt(in *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprintln(out, question)

	answer, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || answer == "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

func logMetrics(result *nearest.Result, memo *geocoding.Memo, limit int) {
	m := result.Metrics

	log.Printf(
		"Listing - %s lines scanned, %s tagged with (%s), %s malformed",
		textutils.FormatInt(int64(m.Lines)),
		textutils.FormatInt(int64(m.Matched)),
		result.Year,
		textutils.FormatInt(int64(m.Skipped)),
	)
	log.Printf(
		"Geocoding - %s resolved (%s distinct places, %s from memory), %s dropped: %d not found, %d unavailable, %d failed, %d invalid",
		textutils.FormatInt(int64(m.Resolved)),
		textutils.FormatInt(int64(memo.Len())),
		textutils.FormatInt(int64(memo.Hits())),
		textutils.FormatInt(int64(m.Dropped())),
		m.NotFound,
		m.Unavailable,
		m.Failed,
		m.Invalid,
	)

	if limit <= 0 {
		limit = nearest.DefaultLimit
	}

	if m.Selected < limit {
		log.Printf("⚠️  Only %d locations could be placed on the map", m.Selected)
	}

	for i, e := range result.Entries {
		log.Printf("%2d. %8.1f km  %s - %s", i+1, e.DistanceKm, textutils.Truncate(e.Title, 60), e.Place)
	}
}

func exportRun(dbPath string, result *nearest.Result) error {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	repo := export.NewRepository(db)
	if err := repo.CreateSchema(); err != nil {
		return err
	}

	run, err := export.NewRun(result)
	if err != nil {
		return fmt.Errorf("building run: %w", err)
	}

	if err := repo.SaveRun(run); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	log.Printf("✅ Exported run %s with %d locations to %s", run.ID, len(run.Results), dbPath)

	return nil
}

func init() {
	rootCmd.AddCommand(nearestCmd)

	nearestCmd.Flags().String("year", "", "Release year, 4 digits")
	nearestCmd.Flags().String("point", "", `Reference point as "lat, lon"`)
	nearestCmd.Flags().String("out", "Your_Map.html", "Where to write the map")
	nearestCmd.Flags().Int("limit", nearest.DefaultLimit, "Number of locations to draw")
	nearestCmd.Flags().String("export-db", "", "DuckDB file where the run is recorded (disabled when empty)")
	nearestCmd.Flags().BoolP("verbose", "v", false, "Log every dropped location")
	addListingFlags(nearestCmd)
	addGeocoderFlags(nearestCmd)
}
