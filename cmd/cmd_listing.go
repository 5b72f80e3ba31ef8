// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/jcodagnone/cinemap/listing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listingCmd = &cobra.Command{
	Use:   "listing <year>",
	Short: "Prints the entries of the listing for a year",
	Long: `Parses the listing and prints one JSON object per entry tagged with the year,
without geocoding it.

$ cinemap listing 1999 --listing locations.list
{"title":"Fight Club (1999)","place":"Los Angeles, California, USA","line":16}
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, metrics, err := listing.Parse(viper.GetString("listing"), args[0], listingOptions())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return fmt.Errorf("encoding entry: %w", err)
			}
		}

		log.Printf("%d lines scanned, %d tagged, %d malformed", metrics.Lines, metrics.Matched, metrics.Skipped)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listingCmd)
	addListingFlags(listingCmd)
}
