// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jcodagnone/cinemap/utils/httputils"
)

// Supported providers.
const (
	ProviderNominatim = "nominatim"
	ProviderGoogle    = "google"
)

// Options configures New.
type Options struct {
	// Provider is one of ProviderNominatim (default) or ProviderGoogle.
	Provider string

	// UserAgent identifies the application to the service.
	UserAgent string

	// NominatimURL overrides the public Nominatim search endpoint.
	NominatimURL string

	// GoogleAPIKey for ProviderGoogle. When empty the key is looked up
	// through GOOGLE_MAPS_API_KEY and then ADC.
	GoogleAPIKey string

	// GoogleProject is the Cloud project holding the key, for the ADC lookup.
	GoogleProject string

	// MinDelay between two requests to the service.
	MinDelay time.Duration

	// Timeout of a single request.
	Timeout time.Duration

	// TraceWriter receives HTTP dumps when not nil.
	TraceWriter io.Writer

	// TraceBody includes bodies in the HTTP dumps.
	TraceBody bool
}

// New builds the geocoder chain: provider, rate limiter and memo.
func New(ctx context.Context, options *Options) (*Memo, error) {
	if options == nil {
		options = &Options{}
	}

	client := httputils.NewClient(&httputils.ClientOptions{
		UserAgent:   options.UserAgent,
		Timeout:     options.Timeout,
		TraceWriter: options.TraceWriter,
		TraceBody:   options.TraceBody,
	})

	var provider Geocoder

	switch options.Provider {
	case "", ProviderNominatim:
		provider = NewNominatimGeocoder(options.NominatimURL, client)
	case ProviderGoogle:
		apiKey := options.GoogleAPIKey
		if apiKey == "" {
			var err error

			apiKey, err = GoogleAPIKey(ctx, options.GoogleProject, DefaultAPIKeyDisplayName)
			if err != nil {
				return nil, err
			}
		}

		provider = NewGoogleMapsGeocoder(apiKey, client)
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q", options.Provider)
	}

	return NewMemo(NewRateLimited(provider, options.MinDelay)), nil
}
