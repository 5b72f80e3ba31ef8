// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jcodagnone/cinemap/spatial"
)

const (
	GoogleMapsURL  = "https://maps.googleapis.com/maps/api/geocode/json"
	googleProvider = "google_maps"
)

// GoogleMapsGeocoder uses Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder.
func NewGoogleMapsGeocoder(apiKey string, httpClient *http.Client) *GoogleMapsGeocoder {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GoogleMapsGeocoder{
		apiKey:     apiKey,
		baseURL:    GoogleMapsURL,
		httpClient: httpClient,
	}
}

// WithBaseURL points the geocoder to another endpoint.
func (g *GoogleMapsGeocoder) WithBaseURL(baseURL string) *GoogleMapsGeocoder {
	g.baseURL = baseURL

	return g
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, etc.
	ErrorMessage string `json:"error_message"`
}

// Geocode returns the first result of the Geocoding API for place.
func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, place string) (*Result, error) {
	params := url.Values{}
	params.Set("address", place)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
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

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, &Error{Type: ErrorTypeUnavailable, Message: "decoding response", Err: err}
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, NotFound(place)
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return nil, &Error{Type: ErrorTypeQuotaExceeded, Message: "google maps status: " + gmResp.Status}
	case "REQUEST_DENIED", "INVALID_REQUEST":
		return nil, &Error{
			Type:    ErrorTypeInvalidRequest,
			Message: fmt.Sprintf("google maps status: %s %s", gmResp.Status, gmResp.ErrorMessage),
		}
	case "UNKNOWN_ERROR":
		// documented as a server error that may succeed if retried
		return nil, &Error{Type: ErrorTypeUnavailable, Message: "google maps status: " + gmResp.Status}
	default:
		return nil, &Error{Type: ErrorTypeUnknown, Message: "google maps status: " + gmResp.Status}
	}

	if len(gmResp.Results) == 0 {
		return nil, NotFound(place)
	}

	result := gmResp.Results[0]

	point := spatial.Point{
		Lat: result.Geometry.Location.Lat,
		Lng: result.Geometry.Location.Lng,
	}
	if !point.IsValid() {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("invalid coordinates %v, %v", point.Lat, point.Lng),
		}
	}

	return &Result{
		Point:       point,
		Provider:    googleProvider,
		DisplayName: result.FormattedAddress,
	}, nil
}
