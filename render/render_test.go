// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcodagnone/cinemap/listing"
	"github.com/jcodagnone/cinemap/nearest"
	"github.com/jcodagnone/cinemap/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func sampleEntries() []nearest.Entry {
	return []nearest.Entry{
		{
			Entry:      listing.Entry{Title: "Notting Hill (1999)", Place: "London, England, UK"},
			Point:      spatial.Point{Lat: 51.5073, Lng: -0.1276},
			DistanceKm: 10,
		},
		{
			Entry:      listing.Entry{Title: "Fight Club (1999)", Place: "Los Angeles, California, USA"},
			Point:      spatial.Point{Lat: 34.0536, Lng: -118.2427},
			DistanceKm: 20,
		},
	}
}

// collect returns the nodes of doc with the given tag, in document order.
func collect(doc *html.Node, tag string) []*html.Node {
	var out []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

func renderDoc(t *testing.T, m *Map) (string, *html.Node) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, m.WriteHTML(&buf))

	doc, err := html.Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)

	return buf.String(), doc
}

func TestWriteHTML(t *testing.T) {
	m := New(spatial.Point{Lat: 49.8397, Lng: 24.0297}, sampleEntries())
	out, doc := renderDoc(t, m)

	titles := collect(doc, "title")
	require.Len(t, titles, 1)
	assert.Equal(t, DefaultTitle, titles[0].FirstChild.Data)

	scripts := collect(doc, "script")
	require.Len(t, scripts, 2)
	assert.Equal(t, DefaultLeafletURL+"/leaflet.js", attr(scripts[0], "src"))

	inline := scripts[1].FirstChild.Data
	assert.Contains(t, inline, `const origin = {"lat":49.8397,"lng":24.0297}`)
	assert.Contains(t, inline, `"title":"Notting Hill (1999)","lat":51.5073,"lng":-0.1276`)
	assert.Contains(t, inline, `"Markers": markers`)
	assert.Contains(t, inline, `"Distance": distance`)
	assert.Contains(t, inline, `color: "red"`)

	// path order follows the selector order
	assert.Less(t, strings.Index(out, "Notting Hill"), strings.Index(out, "Fight Club"))

	divs := collect(doc, "div")
	require.NotEmpty(t, divs)
	assert.Equal(t, "map", attr(divs[0], "id"))
	assert.Equal(t, "2", attr(divs[0], "data-places"))
}

func TestWriteHTMLEmpty(t *testing.T) {
	_, doc := renderDoc(t, New(spatial.Point{}, nil))

	scripts := collect(doc, "script")
	require.Len(t, scripts, 2)
	assert.Contains(t, scripts[1].FirstChild.Data, "const places = []")
}

func TestWriteHTMLEscapesTitles(t *testing.T) {
	entries := sampleEntries()
	entries[0].Title = `</script><script>alert("x")</script>`

	_, doc := renderDoc(t, New(spatial.Point{}, entries))

	// the title must stay inside the inline script
	assert.Len(t, collect(doc, "script"), 2)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Your_Map.html")

	m := New(spatial.Point{}, sampleEntries())
	m.Title = "Filming locations of 1999"
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Filming locations of 1999</title>")

	err = m.Save(filepath.Join(t.TempDir(), "missing", "dir", "map.html"))
	assert.Error(t, err)
}
