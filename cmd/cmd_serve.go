// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/jcodagnone/cinemap/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves maps and rankings over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		geocoder, err := newGeocoder(cmd.Context())
		if err != nil {
			return fmt.Errorf("setting up geocoder: %w", err)
		}

		addr := viper.GetString("addr")
		srv := server.NewServer(geocoder, viper.GetString("listing"), listingOptions())

		fmt.Printf("🗺️  Open http://%s/map?year=2001&point=49.83826,24.02324 in your browser\n", addr)

		return srv.Run(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "localhost:8080", "Address to listen on")
	addListingFlags(serveCmd)
	addGeocoderFlags(serveCmd)
}
