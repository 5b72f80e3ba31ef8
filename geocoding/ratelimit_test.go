// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"testing"
	"time"

	"github.com/jcodagnone/cinemap/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder answers every place with the origin and remembers when it was called.
type recorder struct {
	calls []time.Time
}

func (r *recorder) Geocode(_ context.Context, place string) (*Result, error) {
	r.calls = append(r.calls, time.Now())

	return &Result{Point: spatial.Point{}, DisplayName: place}, nil
}

func TestRateLimitedSpacing(t *testing.T) {
	const delay = 50 * time.Millisecond

	rec := &recorder{}
	g := NewRateLimited(rec, delay)

	for range 3 {
		_, err := g.Geocode(context.Background(), "Paris")
		require.NoError(t, err)
	}

	require.Len(t, rec.calls, 3)

	for i := 1; i < len(rec.calls); i++ {
		// allow some scheduler slack below the nominal spacing
		assert.GreaterOrEqual(t, rec.calls[i].Sub(rec.calls[i-1]), delay-10*time.Millisecond)
	}
}

func TestRateLimitedDisabled(t *testing.T) {
	rec := &recorder{}
	g := NewRateLimited(rec, 0)

	start := time.Now()

	for range 100 {
		_, err := g.Geocode(context.Background(), "Paris")
		require.NoError(t, err)
	}

	assert.Len(t, rec.calls, 100)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRateLimitedCanceled(t *testing.T) {
	rec := &recorder{}
	g := NewRateLimited(rec, time.Hour)

	_, err := g.Geocode(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = g.Geocode(ctx, "second")
	require.Error(t, err)
	assert.Len(t, rec.calls, 1)
}
