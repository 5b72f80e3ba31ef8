// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jcodagnone/cinemap/spatial"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Search/
// Usage policy: https://operations.osmfoundation.org/policies/nominatim/
// (an identifying User-Agent and at most one request per second).
const (
	NominatimURL      = "https://nominatim.openstreetmap.org/search"
	nominatimProvider = "nominatim"
)

// NominatimGeocoder uses the OpenStreetMap Nominatim search API.
type NominatimGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatimGeocoder creates a geocoder for the Nominatim instance at
// baseURL. The client must send an identifying User-Agent.
func NewNominatimGeocoder(baseURL string, httpClient *http.Client) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = NominatimURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &NominatimGeocoder{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode asks the search endpoint for the best match of place.
func (g *NominatimGeocoder) Geocode(ctx context.Context, place string) (*Result, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	q := u.Query()
	q.Set("q", place)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Type: ErrorTypeInvalidRequest, Message: "building request", Err: err}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, &Error{Type: ErrorTypeUnavailable, Message: "decoding response", Err: err}
	}

	if len(places) == 0 {
		return nil, NotFound(place)
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(places[0].Lon, 64)

	point := spatial.Point{Lat: lat, Lng: lng}
	if errLat != nil || errLng != nil || !point.IsValid() {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("invalid coordinates %q, %q", places[0].Lat, places[0].Lon),
		}
	}

	return &Result{
		Point:       point,
		Provider:    nominatimProvider,
		DisplayName: places[0].DisplayName,
	}, nil
}
