// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package nearest geocodes the filming locations of a listing and ranks them
// by their distance to a reference point.
package nearest

import (
	"cmp"
	"slices"

	"github.com/jcodagnone/cinemap/listing"
	"github.com/jcodagnone/cinemap/spatial"
)

// DefaultLimit is the number of locations drawn on the map.
const DefaultLimit = 10

// Entry is a listing entry whose place was resolved.
type Entry struct {
	listing.Entry

	Point       spatial.Point `json:"point"`
	DistanceKm  float64       `json:"distance_km"`
	DisplayName string        `json:"display_name,omitempty"`
}

// Valid reports whether the entry carries a usable distance.
func (e *Entry) Valid() bool {
	return spatial.ValidDistance(e.DistanceKm)
}

// Select returns the n entries closest to the reference point, nearest first.
// Entries without a valid distance are ignored and ties keep their input order.
func Select(entries []Entry, n int) []Entry {
	if n <= 0 {
		n = DefaultLimit
	}

	valid := make([]Entry, 0, len(entries))

	for i := range entries {
		if entries[i].Valid() {
			valid = append(valid, entries[i])
		}
	}

	slices.SortStableFunc(valid, func(a, b Entry) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	if len(valid) > n {
		valid = valid[:n]
	}

	return valid
}
