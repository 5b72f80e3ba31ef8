// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package nearest

import (
	"context"
	"fmt"

	"github.com/jcodagnone/cinemap/geocoding"
	"github.com/jcodagnone/cinemap/listing"
	"github.com/jcodagnone/cinemap/spatial"
)

// Options of a pipeline run.
type Options struct {
	// ListingPath is the locations.list file.
	ListingPath string

	// Year of release, four digits.
	Year string

	// Origin is the user's reference point.
	Origin spatial.Point

	// Limit is the number of entries to keep. Zero means DefaultLimit.
	Limit int

	// Listing tunes the parser window; nil uses listing.DefaultOptions.
	Listing *listing.Options

	// Progress and Verbose are forwarded to the Enricher.
	Progress bool
	Verbose  bool
}

// Metrics aggregates the metrics of every stage.
type Metrics struct {
	listing.Metrics
	EnrichMetrics

	Selected int `json:"selected"`
}

// Result of a pipeline run.
type Result struct {
	Year    string        `json:"year"`
	Origin  spatial.Point `json:"origin"`
	Entries []Entry       `json:"entries"`
	Metrics Metrics       `json:"metrics"`
}

// Run parses the listing, resolves the entries for the year and keeps the
// ones nearest to the origin. Only a listing that can't be read, invalid
// arguments or a done ctx make it fail.
func Run(ctx context.Context, geocoder geocoding.Geocoder, options *Options) (*Result, error) {
	if !options.Origin.IsValid() {
		return nil, fmt.Errorf("%w: %v", spatial.ErrInvalidPoint, options.Origin)
	}

	raw, listingMetrics, err := listing.Parse(options.ListingPath, options.Year, options.Listing)
	if err != nil {
		return nil, err
	}

	enricher := &Enricher{
		Geocoder: geocoder,
		Progress: options.Progress,
		Verbose:  options.Verbose,
	}

	enriched, enrichMetrics, err := enricher.Enrich(ctx, options.Origin, raw)
	if err != nil {
		return nil, err
	}

	selected := Select(enriched, options.Limit)

	return &Result{
		Year:    options.Year,
		Origin:  options.Origin,
		Entries: selected,
		Metrics: Metrics{
			Metrics:       *listingMetrics,
			EnrichMetrics: *enrichMetrics,
			Selected:      len(selected),
		},
	}, nil
}
