// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"sync"

	"github.com/jcodagnone/cinemap/utils/textutils"
)

// Memo remembers answers for the lifetime of the process so that a place
// repeated across titles is looked up once. Only successes and "not found"
// answers are kept; transient failures are retried on the next call.
type Memo struct {
	geocoder Geocoder

	mu      sync.Mutex
	entries map[string]*Result // nil value: known not found
	hits    int
}

// NewMemo wraps geocoder with an in-memory memo.
func NewMemo(geocoder Geocoder) *Memo {
	return &Memo{
		geocoder: geocoder,
		entries:  make(map[string]*Result),
	}
}

// Geocode answers from memory when place, folded, was seen before.
func (m *Memo) Geocode(ctx context.Context, place string) (*Result, error) {
	key := textutils.LowerASCIIFolding(place)

	m.mu.Lock()
	res, ok := m.entries[key]
	if ok {
		m.hits++
	}
	m.mu.Unlock()

	if ok {
		if res == nil {
			return nil, NotFound(place)
		}

		r := *res

		return &r, nil
	}

	res, err := m.geocoder.Geocode(ctx, place)

	switch {
	case err == nil && res != nil:
		r := *res
		m.store(key, &r)
	case IsNotFound(err):
		m.store(key, nil)
	}

	return res, err
}

func (m *Memo) store(key string, res *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = res
}

// Hits returns how many lookups were answered from memory.
func (m *Memo) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hits
}

// Len returns the number of remembered places.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
