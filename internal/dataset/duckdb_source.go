// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DuckDBSource reads both tables through DuckDB's read_csv table function
// in a private in-memory database.
type DuckDBSource struct {
	PollutionPath string
	CitiesPath    string
	Schema        Schema
	Threads       int
}

// NewDuckDBSource creates a DuckDBSource using schema.
func NewDuckDBSource(pollutionPath, citiesPath string, schema Schema) *DuckDBSource {
	return &DuckDBSource{PollutionPath: pollutionPath, CitiesPath: citiesPath, Schema: schema}
}

// Name implements Source.
func (s *DuckDBSource) Name() string { return "duckdb" }

// Load implements Source.
func (s *DuckDBSource) Load(ctx context.Context) (*Dataset, error) {
	connStr := "?preserve_insertion_order=true&autoinstall_known_extensions=false&autoload_known_extensions=false"
	if s.Threads > 0 {
		connStr += fmt.Sprintf("&threads=%d", s.Threads)
	}
	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: open duckdb: %w", ErrLoad, err)
	}
	defer closeQuietly(db)

	pollution, err := queryCSV(ctx, db, s.PollutionPath)
	if err != nil {
		return nil, err
	}
	cities, err := queryCSV(ctx, db, s.CitiesPath)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Measurements: s.Schema.Measurements(pollution),
		Coordinates:  s.Schema.Coordinates(cities),
		Source:       s.Name(),
		LoadedAt:     time.Now(),
	}, nil
}

func queryCSV(ctx context.Context, db *sql.DB, path string) (*Table, error) {
	query := fmt.Sprintf("SELECT * FROM read_csv(%s, header = true, all_varchar = true)", quoteLiteral(path))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoad, path, err)
	}
	defer closeQuietly(rows)

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns of %s: %w", ErrLoad, path, err)
	}

	t := &Table{Header: header}
	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", ErrLoad, path, err)
		}
		rec := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				rec[i] = c.String
			}
		}
		t.Records = append(t.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %w", ErrLoad, path, err)
	}
	return t, nil
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type closer interface{ Close() error }

func closeQuietly(c closer) {
	if c != nil {
		_ = c.Close()
	}
}
