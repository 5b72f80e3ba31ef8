// Copyright 2025 The CineMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package export stores the ranked results of pipeline runs in DuckDB.
package export

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcodagnone/cinemap/nearest"
	"github.com/jcodagnone/cinemap/spatial"
)

// H3 resolutions stored with each result.
const (
	coarseResolution = 5
	fineResolution   = 7
)

// Run is one execution of the pipeline.
type Run struct {
	ID        string        `json:"id"`
	Year      string        `json:"year"`
	Origin    spatial.Point `json:"origin"`
	CreatedAt time.Time     `json:"created_at"`
	Results   []Result      `json:"results,omitempty"`
}

// Result is a ranked location of a run.
type Result struct {
	Rank       int           `json:"rank"`
	Title      string        `json:"title"`
	Place      string        `json:"place"`
	Point      spatial.Point `json:"point"`
	DistanceKm float64       `json:"distance_km"`
	H3Res5     int64         `json:"-"`
	H3Res7     int64         `json:"-"`
}

// NewRun converts a pipeline result into a Run with a fresh id.
func NewRun(result *nearest.Result) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Year:      result.Year,
		Origin:    result.Origin,
		CreatedAt: time.Now().UTC(),
		Results:   make([]Result, len(result.Entries)),
	}

	for i, e := range result.Entries {
		r := Result{
			Rank:       i + 1,
			Title:      e.Title,
			Place:      e.Place,
			Point:      e.Point,
			DistanceKm: e.DistanceKm,
		}
		if err := r.computeH3(); err != nil {
			return nil, err
		}

		run.Results[i] = r
	}

	return run, nil
}

func (r *Result) computeH3() error {
	coarse, err := r.Point.Cell(coarseResolution)
	if err != nil {
		return err
	}

	fine, err := r.Point.Cell(fineResolution)
	if err != nil {
		return err
	}

	r.H3Res5 = int64(coarse)
	r.H3Res7 = int64(fine)

	return nil
}

// Repository persists runs.
type Repository interface {
	CreateSchema() error
	SaveRun(run *Run) error
	ListRuns() ([]*Run, error)
	GetRun(id string) (*Run, error)
}

type sqlRepository struct {
	db *sql.DB
}

// NewRepository returns a Repository backed by db, a DuckDB connection.
func NewRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id VARCHAR PRIMARY KEY,
			year VARCHAR NOT NULL,
			origin VARCHAR NOT NULL, -- POINT(lng lat)
			created_at TIMESTAMP NOT NULL
		);

		CREATE TABLE IF NOT EXISTS results (
			run_id VARCHAR NOT NULL,
			rank INTEGER NOT NULL,
			title VARCHAR NOT NULL,
			place VARCHAR NOT NULL,
			location VARCHAR NOT NULL, -- POINT(lng lat)
			distance_km DOUBLE NOT NULL,
			h3_res5 UBIGINT,
			h3_res7 UBIGINT,
			PRIMARY KEY (run_id, rank)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating export schema: %w", err)
	}

	return nil
}

func (r *sqlRepository) SaveRun(run *Run) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(
		`INSERT INTO runs(id, year, origin, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Year, run.Origin, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO results(run_id, rank, title, place, location, distance_km, h3_res5, h3_res7)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing results insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range run.Results {
		_, err := stmt.Exec(
			run.ID,
			res.Rank,
			res.Title,
			res.Place,
			res.Point,
			res.DistanceKm,
			uint64(res.H3Res5),
			uint64(res.H3Res7),
		)
		if err != nil {
			return fmt.Errorf("inserting result %d: %w", res.Rank, err)
		}
	}

	return tx.Commit()
}

func (r *sqlRepository) ListRuns() ([]*Run, error) {
	rows, err := r.db.Query(`SELECT id, year, origin, created_at FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run

	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.Year, &run.Origin, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *sqlRepository) GetRun(id string) (*Run, error) {
	run := &Run{}

	err := r.db.QueryRow(
		`SELECT id, year, origin, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Year, &run.Origin, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}

	rows, err := r.db.Query(`
		SELECT rank, title, place, location, distance_km, h3_res5, h3_res7
		FROM results
		WHERE run_id = ?
		ORDER BY rank
	`, id)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res        Result
			res5, res7 uint64
		)

		if err := rows.Scan(&res.Rank, &res.Title, &res.Place, &res.Point,
			&res.DistanceKm, &res5, &res7); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}

		res.H3Res5 = int64(res5)
		res.H3Res7 = int64(res7)
		run.Results = append(run.Results, res)
	}

	return run, rows.Err()
}
