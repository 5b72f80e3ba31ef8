// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package listing reads the tab separated "locations.list" dump and extracts
// the filming locations of the titles released in a given year.
//
// The file starts with a preamble of HeaderLines lines. Each data line looks like
//
//	Title (1999)<TAB><TAB>Place, Region, Country<TAB>(annotation)
//
// The place is the last field unless that field is a parenthetical
// annotation, in which case the field before it is used.
package listing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	// DefaultHeaderLines is the size of the format preamble.
	DefaultHeaderLines = 14

	// DefaultMaxLines bounds the scan to the first lines of the file.
	DefaultMaxLines = 10000
)

// ErrInvalidYear is returned when the year is not four ASCII digits.
var ErrInvalidYear = errors.New("year must have 4 digits")

// Entry is a title and the place where it was filmed.
type Entry struct {
	Title string `json:"title"`
	Place string `json:"place"`
	Line  int    `json:"line"` // 1-based line number in the listing
}

// Options tunes the scan window.
type Options struct {
	// Number of preamble lines to skip.
	HeaderLines int

	// Lines after this line number are not scanned. Zero means unbounded.
	MaxLines int
}

// DefaultOptions returns the window used by the stock locations.list dump.
func DefaultOptions() *Options {
	return &Options{
		HeaderLines: DefaultHeaderLines,
		MaxLines:    DefaultMaxLines,
	}
}

// Metrics tracks what happened to the scanned lines.
type Metrics struct {
	Lines   int `json:"lines"`   // data lines scanned
	Matched int `json:"matched"` // lines tagged with the year
	Skipped int `json:"skipped"` // tagged lines that didn't have the expected shape
}

// ValidateYear checks that year is a four digit string.
func ValidateYear(year string) error {
	if len(year) != 4 {
		return fmt.Errorf("%w: %q", ErrInvalidYear, year)
	}

	for _, r := range year {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidYear, year)
		}
	}

	return nil
}

// Parse opens the listing at path and returns the entries for year.
func Parse(path string, year string, opts *Options) ([]Entry, *Metrics, error) {
	if err := ValidateYear(year); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("opening listing: %w", err)
	}
	defer f.Close()

	entries, metrics, err := Read(f, year, opts)
	if err != nil {
		return nil, metrics, fmt.Errorf("reading listing %s: %w", path, err)
	}

	return entries, metrics, nil
}

// Read scans a Latin-1 encoded listing and returns the entries for year.
func Read(r io.Reader, year string, opts *Options) ([]Entry, *Metrics, error) {
	if err := ValidateYear(year); err != nil {
		return nil, nil, err
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	tag := "(" + year + ")"
	metrics := &Metrics{}
	entries := make([]Entry, 0)

	// lines have no length limit: one oversized line must not end the scan
	br := bufio.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))

	for lineno := 1; opts.MaxLines <= 0 || lineno <= opts.MaxLines; lineno++ {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, metrics, err
		}

		if line == "" {
			break
		}

		if lineno > opts.HeaderLines {
			if entry, ok := scanLine(strings.TrimRight(line, "\r\n"), tag, metrics); ok {
				entry.Line = lineno
				entries = append(entries, entry)
			}
		}

		if err != nil {
			break
		}
	}

	return entries, metrics, nil
}

// scanLine accounts for one data line and parses it when it carries tag.
func scanLine(line string, tag string, metrics *Metrics) (Entry, bool) {
	metrics.Lines++

	if !strings.Contains(line, tag) {
		return Entry{}, false
	}

	metrics.Matched++

	entry, ok := parseLine(line)
	if !ok {
		metrics.Skipped++
	}

	return entry, ok
}

func parseLine(line string) (Entry, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return Entry{}, false
	}

	place := strings.TrimRight(fields[len(fields)-1], " \t\r\n")
	if strings.HasPrefix(place, "(") {
		// the field before the annotation can't be the title itself
		if len(fields) < 3 {
			return Entry{}, false
		}

		place = fields[len(fields)-2]
	}

	title := strings.TrimSpace(fields[0])
	place = strings.TrimSpace(place)

	if title == "" || place == "" {
		return Entry{}, false
	}

	return Entry{Title: title, Place: place}, true
}
