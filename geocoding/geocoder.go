// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocoding resolves free text place names to coordinates.
package geocoding

import (
	"context"

	"github.com/jcodagnone/cinemap/spatial"
)

// Result represents a geocoding result from any provider.
type Result struct {
	Point       spatial.Point
	Provider    string
	DisplayName string
}

// Geocoder interface for different geocoding providers.
//
// Implementations return an error of type *Error when the place can't be
// resolved; callers tell "no such place" from "service unavailable" with
// IsNotFound and IsUnavailable.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*Result, error)
}

// Func adapts a plain function to the Geocoder interface.
type Func func(ctx context.Context, place string) (*Result, error)

// Geocode implements Geocoder.
func (f Func) Geocode(ctx context.Context, place string) (*Result, error) {
	return f(ctx, place)
}
