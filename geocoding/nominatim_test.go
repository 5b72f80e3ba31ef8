// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jcodagnone/cinemap/utils/httputils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNominatimServer(t *testing.T, handler http.HandlerFunc) *NominatimGeocoder {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := httputils.NewClient(&httputils.ClientOptions{UserAgent: "cinemap/test", Timeout: time.Second})

	return NewNominatimGeocoder(srv.URL+"/search", client)
}

func TestNominatimGeocode(t *testing.T) {
	var query, format, limit, userAgent string

	g := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		format = r.URL.Query().Get("format")
		limit = r.URL.Query().Get("limit")
		userAgent = r.Header.Get("User-Agent")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"place_id":1,"lat":"51.5073219","lon":"-0.1276474","display_name":"London, Greater London, England, United Kingdom"}]`))
	})

	res, err := g.Geocode(context.Background(), "London, England, UK")
	require.NoError(t, err)

	assert.Equal(t, "London, England, UK", query)
	assert.Equal(t, "jsonv2", format)
	assert.Equal(t, "1", limit)
	assert.Equal(t, "cinemap/test", userAgent)

	assert.InDelta(t, 51.5073219, res.Point.Lat, 1e-9)
	assert.InDelta(t, -0.1276474, res.Point.Lng, 1e-9)
	assert.Equal(t, "nominatim", res.Provider)
	assert.Equal(t, "London, Greater London, England, United Kingdom", res.DisplayName)
}

func TestNominatimGeocodeFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ErrorType
	}{
		{"empty result", http.StatusOK, `[]`, ErrorTypeNotFound},
		{"service down", http.StatusServiceUnavailable, `down`, ErrorTypeUnavailable},
		{"rate limited", http.StatusTooManyRequests, ``, ErrorTypeRateLimit},
		{"blocked", http.StatusForbidden, ``, ErrorTypeQuotaExceeded},
		{"garbage", http.StatusOK, `<html>`, ErrorTypeUnavailable},
		{"bad coordinates", http.StatusOK, `[{"lat":"north","lon":"1"}]`, ErrorTypeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newNominatimServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			res, err := g.Geocode(context.Background(), "Nowhere")
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tc.wantType, TypeOf(err), "error: %v", err)
		})
	}
}

func TestNominatimUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := NewNominatimGeocoder(url, httputils.NewClient(&httputils.ClientOptions{Timeout: time.Second}))

	_, err := g.Geocode(context.Background(), "Paris")
	require.Error(t, err)
	assert.True(t, IsUnavailable(err), "error: %v", err)
}

func TestNominatimCanceled(t *testing.T) {
	g := newNominatimServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Geocode(ctx, "Paris")
	assert.ErrorIs(t, err, context.Canceled)
}
