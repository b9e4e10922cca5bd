// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CSVSource reads both tables from delimited files with gota dataframes.
type CSVSource struct {
	PollutionPath string
	CitiesPath    string
	Schema        Schema
}

// NewCSVSource creates a CSVSource using schema.
func NewCSVSource(pollutionPath, citiesPath string, schema Schema) *CSVSource {
	return &CSVSource{PollutionPath: pollutionPath, CitiesPath: citiesPath, Schema: schema}
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv" }

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) (*Dataset, error) {
	pollution, err := readCSVFile(s.PollutionPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cities, err := readCSVFile(s.CitiesPath)
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

func readCSVFile(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrLoad, path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return t, nil
}

// ReadCSV parses delimited text with a header row into a Table. Every column
// is kept as text so that typing happens in one place. A header without data
// rows is an empty table, not an error.
func ReadCSV(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(raw),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		if strings.Contains(df.Err.Error(), "empty DataFrame") {
			return headerOnly(raw)
		}
		return nil, df.Err
	}

	records := df.Records()
	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{Header: records[0], Records: records[1:]}, nil
}

// headerOnly reads just the header row of a table gota reports as empty.
func headerOnly(raw []byte) (*Table, error) {
	header, err := csv.NewReader(bytes.NewReader(raw)).Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return &Table{Header: header}, nil
}
