// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/uber/h3-go/v4"
)

// EarthRadiusKm is the sphere radius used by Distance.
const EarthRadiusKm = 6373.0

// ErrInvalidPoint is returned when a "lat, lon" pair can't be parsed.
var ErrInvalidPoint = errors.New("invalid point")

// Point represents a geographical point with latitude and longitude, in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// Value implements the driver.Valuer interface for database serialization.
// Coordinates are written with the shortest exact representation so that
// Scan gives back the same Point.
func (p Point) Value() (driver.Value, error) {
	return "POINT(" + strconv.FormatFloat(p.Lng, 'f', -1, 64) + " " +
		strconv.FormatFloat(p.Lat, 'f', -1, 64) + ")", nil
}

// Scan implements the sql.Scanner interface. It accepts the textual form
// produced by Value, with or without a space after POINT.
func (p *Point) Scan(value any) error {
	if value == nil {
		p.Lat, p.Lng = 0, 0

		return nil
	}

	var s string

	switch v := value.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("spatial: unsupported type for Point scan: %T", value)
	}

	_, err := fmt.Sscanf(strings.ReplaceAll(s, "POINT (", "POINT("), "POINT(%f %f)", &p.Lng, &p.Lat)

	return err
}

// ParsePoint parses the "lat, lon" form users type at the prompt.
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("%w: expected \"lat, lon\", got %q", ErrInvalidPoint, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: latitude %q", ErrInvalidPoint, parts[0])
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: longitude %q", ErrInvalidPoint, parts[1])
	}

	p := Point{Lat: lat, Lng: lng}
	if !p.IsValid() {
		return Point{}, fmt.Errorf("%w: %s out of range", ErrInvalidPoint, strings.TrimSpace(s))
	}

	return p, nil
}

// IsValid reports whether the coordinates are finite and within the WGS84 ranges.
func (p Point) IsValid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lng) &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lng >= -180 && p.Lng <= 180
}

// Distance calculates the great-circle distance between two points in kilometers
// using the haversine formula.
func Distance(p1, p2 Point) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	dLat := (p2.Lat - p1.Lat) * math.Pi / 180
	dLng := (p2.Lng - p1.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push a slightly outside [0, 1] near antipodes
	a = math.Max(0, math.Min(1, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceTo is the method form of Distance.
func (p Point) DistanceTo(other Point) float64 {
	return Distance(p, other)
}

// ValidDistance reports whether d is a usable distance: finite and non-negative.
func ValidDistance(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0
}

// Cell returns the H3 cell containing the point at the given resolution.
func (p Point) Cell(res int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
	}

	return cell, nil
}
