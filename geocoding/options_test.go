// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNominatimChain(t *testing.T) {
	requests := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++

		assert.Equal(t, "cinemap/test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"lat":"48.8566","lon":"2.3522","display_name":"Paris"}]`))
	}))
	defer srv.Close()

	g, err := New(context.Background(), &Options{
		UserAgent:    "cinemap/test",
		NominatimURL: srv.URL,
	})
	require.NoError(t, err)

	for range 2 {
		res, err := g.Geocode(context.Background(), "Paris, France")
		require.NoError(t, err)
		assert.Equal(t, "Paris", res.DisplayName)
	}

	assert.Equal(t, 1, requests)
	assert.Equal(t, 1, g.Hits())
}

func TestNewGoogleWithKey(t *testing.T) {
	g, err := New(context.Background(), &Options{Provider: ProviderGoogle, GoogleAPIKey: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), &Options{Provider: "bing"})
	assert.ErrorContains(t, err, "unknown geocoding provider")
}

func TestGoogleAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "from-env")

	key, err := GoogleAPIKey(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}
