// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package pipeline

import (
	"sort"

	"github.com/tomtom215/airscope/internal/dataset"
)

// AllCountries is the filter value that keeps every row.
const AllCountries = "All"

// Record is a measurement joined with its city coordinates. ID identifies
// the record within one joined table and is the key labels are attached by.
type Record struct {
	ID int
	dataset.Measurement
	Lat float64
	Lng float64
}

type cityKey struct {
	city    string
	country string
}

// Join left-joins measurements to coordinates on exact (city, country)
// equality and drops every row without both coordinates. A key present
// several times in coordinates resolves to its first row with both lat and
// lng, so each measurement yields at most one record. Output follows
// measurement order.
func Join(measurements []dataset.Measurement, coordinates []dataset.Coordinate) []Record {
	index := make(map[cityKey]int, len(coordinates))
	for i := range coordinates {
		c := &coordinates[i]
		if !c.Lat.Valid || !c.Lng.Valid {
			continue
		}
		k := cityKey{c.City, c.Country}
		if _, ok := index[k]; !ok {
			index[k] = i
		}
	}

	out := make([]Record, 0, len(measurements))
	for i := range measurements {
		m := &measurements[i]
		ci, ok := index[cityKey{m.City, m.Country}]
		if !ok {
			continue
		}
		c := &coordinates[ci]
		out = append(out, Record{
			ID:          len(out),
			Measurement: *m,
			Lat:         c.Lat.Float64,
			Lng:         c.Lng.Float64,
		})
	}
	return out
}

// Filter keeps the records of country. An empty value or AllCountries
// returns records unchanged.
func Filter(records []Record, country string) []Record {
	if country == "" || country == AllCountries {
		return records
	}
	out := make([]Record, 0)
	for i := range records {
		if records[i].Country == country {
			out = append(out, records[i])
		}
	}
	return out
}

// Countries returns the distinct countries present in records, sorted.
func Countries(records []Record) []string {
	seen := make(map[string]struct{})
	for i := range records {
		if c := records[i].Country; c != "" {
			seen[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
