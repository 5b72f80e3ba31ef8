// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"

	"github.com/jcodagnone/cinemap/geocoding"
	"github.com/jcodagnone/cinemap/listing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func addListingFlags(cmd *cobra.Command) {
	cmd.Flags().String("listing", "locations.list", "Path to the locations.list dump")
	cmd.Flags().Int("header-lines", listing.DefaultHeaderLines, "Number of preamble lines in the listing")
	cmd.Flags().Int("max-lines", listing.DefaultMaxLines, "Lines after this one are not scanned (0 = whole file)")
}

func listingOptions() *listing.Options {
	return &listing.Options{
		HeaderLines: viper.GetInt("header-lines"),
		MaxLines:    viper.GetInt("max-lines"),
	}
}

func addGeocoderFlags(cmd *cobra.Command) {
	cmd.Flags().String("geocoder", geocoding.ProviderNominatim, "Geocoding provider: nominatim or google")
	cmd.Flags().String("nominatim-url", geocoding.NominatimURL, "Nominatim search endpoint")
	cmd.Flags().String("google-api-key", "", "Google Maps API key (defaults to GOOGLE_MAPS_API_KEY, then ADC)")
	cmd.Flags().String("google-project", "", "Cloud project holding the Google Maps API key, for ADC lookups")
	cmd.Flags().Duration("min-delay", geocoding.DefaultMinDelay, "Minimum delay between two geocoding requests")
	cmd.Flags().Duration("timeout", 0, "Timeout of a single geocoding request (0 = default)")
	cmd.Flags().Bool("trace-http", false, "Display HTTP requests-responses")
	cmd.Flags().Bool("trace-http-body", false, "Display HTTP requests-responses bodies")
}

func newGeocoder(ctx context.Context) (*geocoding.Memo, error) {
	options := &geocoding.Options{
		Provider:      viper.GetString("geocoder"),
		UserAgent:     userAgent(),
		NominatimURL:  viper.GetString("nominatim-url"),
		GoogleAPIKey:  viper.GetString("google-api-key"),
		GoogleProject: viper.GetString("google-project"),
		MinDelay:      viper.GetDuration("min-delay"),
		Timeout:       viper.GetDuration("timeout"),
		TraceBody:     viper.GetBool("trace-http-body"),
	}

	if viper.GetBool("trace-http") || options.TraceBody {
		options.TraceWriter = os.Stderr
	}

	return geocoding.New(ctx, options)
}
