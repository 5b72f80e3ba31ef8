// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package nearest

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jcodagnone/cinemap/geocoding"
	"github.com/jcodagnone/cinemap/listing"
	"github.com/jcodagnone/cinemap/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGeocoder answers from a fixed table and fails for the listed places.
type stubGeocoder struct {
	points map[string]spatial.Point
	errs   map[string]error
	calls  []string
}

func (s *stubGeocoder) Geocode(_ context.Context, place string) (*geocoding.Result, error) {
	s.calls = append(s.calls, place)

	if err, ok := s.errs[place]; ok {
		return nil, err
	}

	p, ok := s.points[place]
	if !ok {
		return nil, geocoding.NotFound(place)
	}

	return &geocoding.Result{Point: p, DisplayName: "resolved " + place}, nil
}

func TestEnrichDropsFailures(t *testing.T) {
	origin := spatial.Point{Lat: 0, Lng: 0}

	raw := []listing.Entry{
		{Title: "One", Place: "p1"},
		{Title: "Two", Place: "p2"},
		{Title: "Three", Place: "p3"},
		{Title: "Four", Place: "p4"},
		{Title: "Five", Place: "p5"},
	}

	geocoder := &stubGeocoder{
		points: map[string]spatial.Point{
			"p1": {Lat: 0, Lng: 3},
			"p3": {Lat: 1, Lng: 0},
			"p5": {Lat: 0, Lng: 2},
		},
		errs: map[string]error{
			"p2": geocoding.ClassifyHTTPError(http.StatusServiceUnavailable),
			"p4": geocoding.NotFound("p4"),
		},
	}

	enriched, metrics, err := Enrich(context.Background(), geocoder, origin, raw)
	require.NoError(t, err)

	oneDegree := spatial.EarthRadiusKm * math.Pi / 180
	expected := []Entry{
		{Entry: raw[0], Point: spatial.Point{Lat: 0, Lng: 3}, DistanceKm: 3 * oneDegree, DisplayName: "resolved p1"},
		{Entry: raw[2], Point: spatial.Point{Lat: 1, Lng: 0}, DistanceKm: oneDegree, DisplayName: "resolved p3"},
		{Entry: raw[4], Point: spatial.Point{Lat: 0, Lng: 2}, DistanceKm: 2 * oneDegree, DisplayName: "resolved p5"},
	}

	if diff := cmp.Diff(expected, enriched, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Enrich() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, &EnrichMetrics{Resolved: 3, NotFound: 1, Unavailable: 1}, metrics)
	assert.Equal(t, 2, metrics.Dropped())
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, geocoder.calls)

	// the input slice is untouched
	assert.Len(t, raw, 5)
	assert.Equal(t, "Two", raw[1].Title)
}

func TestEnrichOtherFailures(t *testing.T) {
	geocoder := &stubGeocoder{
		points: map[string]spatial.Point{
			"broken": {Lat: math.NaN(), Lng: 0},
			"ok":     {Lat: 10, Lng: 10},
		},
		errs: map[string]error{
			"quota":   geocoding.ClassifyHTTPError(http.StatusForbidden),
			"unknown": errors.New("something odd"),
		},
	}

	raw := []listing.Entry{
		{Title: "A", Place: "quota"},
		{Title: "B", Place: "broken"},
		{Title: "C", Place: "unknown"},
		{Title: "D", Place: "ok"},
	}

	e := &Enricher{Geocoder: geocoder, Verbose: true}

	enriched, metrics, err := e.Enrich(context.Background(), spatial.Point{}, raw)
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, "D", enriched[0].Title)
	assert.True(t, enriched[0].Valid())
	assert.Equal(t, &EnrichMetrics{Resolved: 1, Failed: 2, Invalid: 1}, metrics)
}

func TestEnrichNilResult(t *testing.T) {
	geocoder := geocoding.Func(func(context.Context, string) (*geocoding.Result, error) {
		return nil, nil
	})

	enriched, metrics, err := Enrich(context.Background(), geocoder, spatial.Point{}, []listing.Entry{{Title: "A", Place: "x"}})
	require.NoError(t, err)
	assert.Empty(t, enriched)
	assert.Equal(t, 1, metrics.NotFound)
}

func TestEnrichCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	geocoder := geocoding.Func(func(context.Context, string) (*geocoding.Result, error) {
		cancel()

		return nil, context.Canceled
	})

	raw := []listing.Entry{{Title: "A", Place: "a"}, {Title: "B", Place: "b"}}

	_, _, err := Enrich(ctx, geocoder, spatial.Point{}, raw)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnrichEmpty(t *testing.T) {
	enriched, metrics, err := Enrich(context.Background(), &stubGeocoder{}, spatial.Point{}, nil)
	require.NoError(t, err)
	assert.Empty(t, enriched)
	assert.Equal(t, 0, metrics.Dropped())
}
