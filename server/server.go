// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the pipeline over HTTP.
package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/cinemap/geocoding"
	"github.com/jcodagnone/cinemap/listing"
	"github.com/jcodagnone/cinemap/nearest"
	"github.com/jcodagnone/cinemap/render"
	"github.com/jcodagnone/cinemap/spatial"
)

// MaxLimit caps the limit query parameter.
const MaxLimit = 50

// Server answers nearest-locations queries over one listing.
type Server struct {
	geocoder    geocoding.Geocoder
	listingPath string
	listingOpts *listing.Options
}

// NewServer returns a server answering from the listing at listingPath.
func NewServer(geocoder geocoding.Geocoder, listingPath string, listingOpts *listing.Options) *Server {
	return &Server{
		geocoder:    geocoder,
		listingPath: listingPath,
		listingOpts: listingOpts,
	}
}

// Router builds the gin engine with every route.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.health)
	r.GET("/api/nearest", s.nearestAPI)
	r.GET("/map", s.mapView)

	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	if _, err := os.Stat(s.listingPath); err != nil {
		return fmt.Errorf("checking listing: %w", err)
	}

	return s.Router().Run(addr)
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type errBadRequest struct {
	msg string
}

func (e *errBadRequest) Error() string {
	return e.msg
}

// run parses the query and executes the pipeline.
func (s *Server) run(ctx *gin.Context) (*nearest.Result, error) {
	year := ctx.Query("year")
	if err := listing.ValidateYear(year); err != nil {
		return nil, &errBadRequest{err.Error()}
	}

	origin, err := spatial.ParsePoint(ctx.Query("point"))
	if err != nil {
		return nil, &errBadRequest{err.Error()}
	}

	limit := nearest.DefaultLimit

	if raw := ctx.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return nil, &errBadRequest{fmt.Sprintf("limit must be between 1 and %d", MaxLimit)}
		}
	}

	return nearest.Run(ctx.Request.Context(), s.geocoder, &nearest.Options{
		ListingPath: s.listingPath,
		Year:        year,
		Origin:      origin,
		Limit:       limit,
		Listing:     s.listingOpts,
	})
}

func (s *Server) fail(ctx *gin.Context, err error) {
	var badRequest *errBadRequest
	if errors.As(err, &badRequest) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": badRequest.msg})

		return
	}

	log.Printf("Pipeline failed - %v", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute nearest locations"})
}

func (s *Server) nearestAPI(ctx *gin.Context) {
	result, err := s.run(ctx)
	if err != nil {
		s.fail(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (s *Server) mapView(ctx *gin.Context) {
	result, err := s.run(ctx)
	if err != nil {
		s.fail(ctx, err)

		return
	}

	m := render.New(result.Origin, result.Entries)
	m.Title = fmt.Sprintf("Filming locations of %s", result.Year)

	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.Status(http.StatusOK)

	if err := m.WriteHTML(ctx.Writer); err != nil {
		log.Printf("Rendering map failed - %v", err)
	}
}
