// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package dataset loads the pollution measurements and world city
// coordinates that every clustering run starts from.
//
// A Source reads both tables as raw string columns; Schema converts them to
// typed records, turning empty or unparseable numbers into missing values.
// Cache wraps a Source so that the files are read once per process.
package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrLoad wraps every failure to read or parse a source table.
var ErrLoad = errors.New("dataset load failed")

// Pollutant indexes the four AQI features used for clustering.
type Pollutant int

const (
	NO2 Pollutant = iota
	Ozone
	PM25
	CO
)

// Pollutants lists the features in column order.
var Pollutants = [...]Pollutant{NO2, Ozone, PM25, CO}

// NumPollutants is the dimension of the feature space.
const NumPollutants = len(Pollutants)

// Column returns the default source column holding the pollutant.
func (p Pollutant) Column() string {
	switch p {
	case NO2:
		return "NO2 AQI Value"
	case Ozone:
		return "Ozone AQI Value"
	case PM25:
		return "PM2.5 AQI Value"
	case CO:
		return "CO AQI Value"
	}
	return ""
}

// Short returns a compact label for charts.
func (p Pollutant) Short() string {
	switch p {
	case NO2:
		return "NO2"
	case Ozone:
		return "Ozone"
	case PM25:
		return "PM2.5"
	case CO:
		return "CO"
	}
	return ""
}

// Measurement is one row of the pollution table. Row is the 0-based
// position of the row in the source file.
type Measurement struct {
	Row      int
	City     string
	Country  string
	Values   [NumPollutants]sql.NullFloat64
	AQI      sql.NullFloat64
	Category string
}

// Value returns the reading for p.
func (m *Measurement) Value(p Pollutant) sql.NullFloat64 {
	return m.Values[p]
}

// Complete reports whether all four pollutant readings are present.
func (m *Measurement) Complete() bool {
	for _, v := range m.Values {
		if !v.Valid {
			return false
		}
	}
	return true
}

// Coordinate is one row of the world cities table.
type Coordinate struct {
	City    string
	Country string
	Lat     sql.NullFloat64
	Lng     sql.NullFloat64
}

// Dataset holds both loaded tables.
type Dataset struct {
	Measurements []Measurement
	Coordinates  []Coordinate
	Source       string
	LoadedAt     time.Time
}

// Table is a raw table of string cells.
type Table struct {
	Header  []string
	Records [][]string
}

// column returns the index of name in the header or -1.
func (t *Table) column(name string) int {
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Source reads both tables.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
	Name() string
}

// Schema names the columns read from each table.
type Schema struct {
	City       string
	Country    string
	Pollutants [NumPollutants]string
	AQI        string
	Category   string

	CoordCity    string
	CoordCountry string
	Lat          string
	Lng          string
}

// DefaultSchema returns the column names of the public pollution and
// world cities datasets.
func DefaultSchema() Schema {
	s := Schema{
		City:         "City",
		Country:      "Country",
		AQI:          "AQI Value",
		Category:     "AQI Category",
		CoordCity:    "city",
		CoordCountry: "country",
		Lat:          "lat",
		Lng:          "lng",
	}
	for _, p := range Pollutants {
		s.Pollutants[p] = p.Column()
	}
	return s
}

// Measurements converts the pollution table. Missing columns produce empty
// strings and missing values rather than an error.
func (s Schema) Measurements(t *Table) []Measurement {
	city, country := t.column(s.City), t.column(s.Country)
	aqi, category := t.column(s.AQI), t.column(s.Category)
	var cols [NumPollutants]int
	for _, p := range Pollutants {
		cols[p] = t.column(s.Pollutants[p])
	}

	out := make([]Measurement, len(t.Records))
	for i, rec := range t.Records {
		m := Measurement{
			Row:      i,
			City:     cell(rec, city),
			Country:  cell(rec, country),
			AQI:      parseNumber(cell(rec, aqi)),
			Category: cell(rec, category),
		}
		for _, p := range Pollutants {
			m.Values[p] = parseNumber(cell(rec, cols[p]))
		}
		out[i] = m
	}
	return out
}

// Coordinates converts the world cities table.
func (s Schema) Coordinates(t *Table) []Coordinate {
	city, country := t.column(s.CoordCity), t.column(s.CoordCountry)
	lat, lng := t.column(s.Lat), t.column(s.Lng)

	out := make([]Coordinate, len(t.Records))
	for i, rec := range t.Records {
		out[i] = Coordinate{
			City:    cell(rec, city),
			Country: cell(rec, country),
			Lat:     parseNumber(cell(rec, lat)),
			Lng:     parseNumber(cell(rec, lng)),
		}
	}
	return out
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	if missingMarker(rec[idx]) {
		return ""
	}
	return rec[idx]
}

// missingMarker matches the cell values that denote an absent value.
func missingMarker(s string) bool {
	switch s {
	case "", "NA", "NaN", "nan", "<nil>", "null", "NULL":
		return true
	}
	return false
}

func parseNumber(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// Engine names accepted by NewSource.
const (
	EngineCSV    = "csv"
	EngineDuckDB = "duckdb"
)

// NewSource returns the Source for engine.
func NewSource(engine, pollutionPath, citiesPath string, schema Schema) (Source, error) {
	switch engine {
	case EngineCSV, "":
		return NewCSVSource(pollutionPath, citiesPath, schema), nil
	case EngineDuckDB:
		return NewDuckDBSource(pollutionPath, citiesPath, schema), nil
	default:
		return nil, fmt.Errorf("unknown data engine %q", engine)
	}
}
