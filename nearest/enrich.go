// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package nearest

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jcodagnone/cinemap/geocoding"
	"github.com/jcodagnone/cinemap/listing"
	"github.com/jcodagnone/cinemap/spatial"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// EnrichMetrics tracks the outcome of the geocoding phase.
type EnrichMetrics struct {
	Resolved    int `json:"resolved"`    // entries kept
	NotFound    int `json:"not_found"`   // the service had no match
	Unavailable int `json:"unavailable"` // the service couldn't be reached
	Failed      int `json:"failed"`      // any other geocoding failure
	Invalid     int `json:"invalid"`     // resolved, but the distance isn't usable
}

// Dropped returns how many entries were discarded.
func (m *EnrichMetrics) Dropped() int {
	return m.NotFound + m.Unavailable + m.Failed + m.Invalid
}

// Enricher resolves listing entries one at a time.
type Enricher struct {
	Geocoder geocoding.Geocoder

	// Progress draws a progress bar when stderr is a terminal.
	Progress bool

	// Verbose logs every dropped entry.
	Verbose bool
}

// Enrich resolves entries with geocoder and measures their distance to origin.
func Enrich(
	ctx context.Context,
	geocoder geocoding.Geocoder,
	origin spatial.Point,
	entries []listing.Entry,
) ([]Entry, *EnrichMetrics, error) {
	e := &Enricher{Geocoder: geocoder}

	return e.Enrich(ctx, origin, entries)
}

// Enrich returns the entries whose place could be resolved, in input order.
// Geocoding failures drop the entry and are only reflected in the metrics;
// the returned error is set only when ctx is done.
func (e *Enricher) Enrich(ctx context.Context, origin spatial.Point, entries []listing.Entry) ([]Entry, *EnrichMetrics, error) {
	metrics := &EnrichMetrics{}
	out := make([]Entry, 0, len(entries))

	var bar *progressbar.ProgressBar
	if e.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(entries),
			progressbar.OptionSetDescription("Geocoding"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, raw := range entries {
		if err := ctx.Err(); err != nil {
			return nil, metrics, fmt.Errorf("geocoding interrupted: %w", err)
		}

		entry, err := e.resolve(ctx, origin, raw)
		if err != nil && ctx.Err() != nil {
			return nil, metrics, fmt.Errorf("geocoding interrupted: %w", ctx.Err())
		}

		switch {
		case err != nil:
			countFailure(metrics, err)

			if e.Verbose {
				log.Printf("Dropping %q (%s) - %v", raw.Title, raw.Place, err)
			}
		case !entry.Valid():
			metrics.Invalid++

			if e.Verbose {
				log.Printf("Dropping %q (%s) - invalid distance %v", raw.Title, raw.Place, entry.DistanceKm)
			}
		default:
			metrics.Resolved++
			out = append(out, entry)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	return out, metrics, nil
}

func (e *Enricher) resolve(ctx context.Context, origin spatial.Point, raw listing.Entry) (Entry, error) {
	res, err := e.Geocoder.Geocode(ctx, raw.Place)
	if err != nil {
		return Entry{}, err
	}

	if res == nil {
		return Entry{}, geocoding.NotFound(raw.Place)
	}

	return Entry{
		Entry:       raw,
		Point:       res.Point,
		DistanceKm:  spatial.Distance(origin, res.Point),
		DisplayName: res.DisplayName,
	}, nil
}

func countFailure(metrics *EnrichMetrics, err error) {
	switch {
	case geocoding.IsNotFound(err):
		metrics.NotFound++
	case geocoding.IsUnavailable(err):
		metrics.Unavailable++
	default:
		metrics.Failed++
	}
}
