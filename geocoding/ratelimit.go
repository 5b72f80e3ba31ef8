// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinDelay is the spacing Nominatim's usage policy asks for.
const DefaultMinDelay = time.Second

// RateLimited spaces the calls to the wrapped geocoder. It is safe for
// concurrent use; concurrent callers queue on the limiter.
type RateLimited struct {
	geocoder Geocoder
	limiter  *rate.Limiter
}

// NewRateLimited wraps geocoder so that two calls are at least minDelay
// apart. A zero or negative minDelay disables the limit.
func NewRateLimited(geocoder Geocoder, minDelay time.Duration) *RateLimited {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}

	return &RateLimited{
		geocoder: geocoder,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Geocode waits for its turn and delegates to the wrapped geocoder.
func (g *RateLimited) Geocode(ctx context.Context, place string) (*Result, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, &Error{Type: ErrorTypeRateLimit, Message: "waiting for rate limiter", Err: err}
	}

	return g.geocoder.Geocode(ctx, place)
}
