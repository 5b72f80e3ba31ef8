// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package render draws the selected locations as a standalone Leaflet map.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/jcodagnone/cinemap/nearest"
	"github.com/jcodagnone/cinemap/spatial"
)

const (
	DefaultTitle       = "Filming locations"
	DefaultLeafletURL  = "https://unpkg.com/leaflet@1.9.4/dist"
	DefaultTilesURL    = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	defaultZoom        = 5
)

//go:embed map.html
var mapTemplate string

var tmpl = template.Must(template.New("map").Parse(mapTemplate))

// Marker is one labelled location on the map, in path order.
type Marker struct {
	Title      string  `json:"title"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	DistanceKm float64 `json:"distance_km"`
}

// Map is the document written by WriteHTML.
type Map struct {
	Title       string
	Origin      spatial.Point
	Markers     []Marker
	LeafletURL  string
	TilesURL    string
	Attribution string
}

// New builds a map centred at origin with one marker per entry. The path
// follows the order of entries.
func New(origin spatial.Point, entries []nearest.Entry) *Map {
	markers := make([]Marker, len(entries))
	for i, e := range entries {
		markers[i] = Marker{
			Title:      e.Title,
			Lat:        e.Point.Lat,
			Lng:        e.Point.Lng,
			DistanceKm: e.DistanceKm,
		}
	}

	return &Map{
		Title:       DefaultTitle,
		Origin:      origin,
		Markers:     markers,
		LeafletURL:  DefaultLeafletURL,
		TilesURL:    DefaultTilesURL,
		Attribution: DefaultAttribution,
	}
}

// coordinate keeps spatial.Point's String method out of the JS context,
// where html/template would prefer it to the JSON encoding.
type coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type templateData struct {
	Title       string
	Origin      coordinate
	Places      []Marker
	Zoom        int
	LeafletURL  string
	TilesURL    string
	Attribution string
}

// WriteHTML writes the map as a self-contained HTML document.
func (m *Map) WriteHTML(w io.Writer) error {
	places := m.Markers
	if places == nil {
		places = []Marker{}
	}

	err := tmpl.Execute(w, templateData{
		Title:       m.Title,
		Origin:      coordinate{Lat: m.Origin.Lat, Lng: m.Origin.Lng},
		Places:      places,
		Zoom:        defaultZoom,
		LeafletURL:  m.LeafletURL,
		TilesURL:    m.TilesURL,
		Attribution: m.Attribution,
	})
	if err != nil {
		return fmt.Errorf("rendering map: %w", err)
	}

	return nil
}

// Save writes the map to path.
func (m *Map) Save(path string) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating map file: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing map file: %w", cerr)
		}
	}()

	return m.WriteHTML(f)
}
