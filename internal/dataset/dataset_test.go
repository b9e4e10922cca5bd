// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

const pollutionCSV = `Country,City,AQI Value,AQI Category,CO AQI Value,CO AQI Category,Ozone AQI Value,Ozone AQI Category,NO2 AQI Value,NO2 AQI Category,PM2.5 AQI Value,PM2.5 AQI Category
Russian Federation,Praskoveya,51,Moderate,1,Good,36,Good,0,Good,51,Moderate
Brazil,Presidente Dutra,41,Good,1,Good,5,Good,1,Good,41,Good
Italy,Priolo Gargallo,66,Moderate,1,Good,39,Good,2,Good,66,Moderate
Poland,Przasnysz,34,Good,1,Good,34,Good,0,Good,20,Good
France,Punaauia,22,Good,0,Good,22,Good,,Good,6,Good
`

const citiesCSV = `city,city_ascii,lat,lng,country,iso2
Praskoveya,Praskoveya,44.7439,44.2031,Russian Federation,RU
Presidente Dutra,Presidente Dutra,-5.29,-44.49,Brazil,BR
Priolo Gargallo,Priolo Gargallo,,15.1833,Italy,IT
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	table, err := ReadCSV(strings.NewReader(pollutionCSV))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	if len(table.Header) != 12 {
		t.Errorf("expected 12 header columns, got %d", len(table.Header))
	}
	if len(table.Records) != 5 {
		t.Errorf("expected 5 records, got %d", len(table.Records))
	}
	if table.Records[1][1] != "Presidente Dutra" {
		t.Errorf("expected city 'Presidente Dutra', got %q", table.Records[1][1])
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		header []string
	}{
		{"header with newline", "City,Country,lat\n", []string{"City", "Country", "lat"}},
		{"header without newline", "City,Country", []string{"City", "Country"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table, err := ReadCSV(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadCSV returned error: %v", err)
			}
			if len(table.Records) != 0 {
				t.Errorf("expected no records, got %d", len(table.Records))
			}
			if len(table.Header) != len(tt.header) {
				t.Fatalf("expected header %v, got %v", tt.header, table.Header)
			}
			for i := range tt.header {
				if table.Header[i] != tt.header[i] {
					t.Errorf("header[%d] = %q, want %q", i, table.Header[i], tt.header[i])
				}
			}
		})
	}
}

func TestCSVSourceHeaderOnlyFile(t *testing.T) {
	t.Parallel()

	header := strings.SplitN(pollutionCSV, "\n", 2)[0] + "\n"
	src := NewCSVSource(writeFixture(t, "pollution.csv", header), writeFixture(t, "cities.csv", citiesCSV), DefaultSchema())
	ds, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("expected header-only file to load, got %v", err)
	}
	if len(ds.Measurements) != 0 {
		t.Errorf("expected no measurements, got %d", len(ds.Measurements))
	}
	if len(ds.Coordinates) != 3 {
		t.Errorf("expected 3 coordinates, got %d", len(ds.Coordinates))
	}
}

func TestSchemaMeasurements(t *testing.T) {
	t.Parallel()

	table, err := ReadCSV(strings.NewReader(pollutionCSV))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	ms := DefaultSchema().Measurements(table)
	if len(ms) != 5 {
		t.Fatalf("expected 5 measurements, got %d", len(ms))
	}

	m := ms[2]
	if m.Row != 2 || m.City != "Priolo Gargallo" || m.Country != "Italy" {
		t.Errorf("unexpected identity fields: %+v", m)
	}
	if v := m.Value(PM25); !v.Valid || v.Float64 != 66 {
		t.Errorf("expected PM2.5 66, got %+v", v)
	}
	if v := m.Value(NO2); !v.Valid || v.Float64 != 2 {
		t.Errorf("expected NO2 2, got %+v", v)
	}
	if !m.Complete() {
		t.Error("expected complete measurement")
	}
	if m.Category != "Moderate" {
		t.Errorf("expected category Moderate, got %q", m.Category)
	}

	if ms[4].Value(NO2).Valid {
		t.Error("expected empty NO2 cell to be missing")
	}
	if ms[4].Complete() {
		t.Error("expected incomplete measurement")
	}
}

func TestSchemaMissingColumns(t *testing.T) {
	t.Parallel()

	table := &Table{
		Header:  []string{"Town", "Nation", "NO2 AQI Value"},
		Records: [][]string{{"Lyon", "France", "3"}},
	}
	ms := DefaultSchema().Measurements(table)
	if len(ms) != 1 {
		t.Fatalf("expected 1 measurement, got %d", len(ms))
	}
	if ms[0].City != "" || ms[0].Country != "" {
		t.Errorf("expected empty keys for missing columns, got %q/%q", ms[0].City, ms[0].Country)
	}
	if !ms[0].Value(NO2).Valid {
		t.Error("expected NO2 to be read from its column")
	}
	if ms[0].Value(CO).Valid {
		t.Error("expected absent CO column to be missing")
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  float64
		valid bool
	}{
		{"42", 42, true},
		{" 1.5 ", 1.5, true},
		{"-3", -3, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"abc", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got := parseNumber(tt.input)
			if got.Valid != tt.valid || (tt.valid && got.Float64 != tt.want) {
				t.Errorf("parseNumber(%q) = %+v, want %v valid=%v", tt.input, got, tt.want, tt.valid)
			}
		})
	}
}

func TestCSVSourceLoad(t *testing.T) {
	t.Parallel()

	src := NewCSVSource(writeFixture(t, "pollution.csv", pollutionCSV), writeFixture(t, "cities.csv", citiesCSV), DefaultSchema())
	ds, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(ds.Measurements) != 5 {
		t.Errorf("expected 5 measurements, got %d", len(ds.Measurements))
	}
	if len(ds.Coordinates) != 3 {
		t.Fatalf("expected 3 coordinates, got %d", len(ds.Coordinates))
	}
	if ds.Coordinates[2].Lat.Valid {
		t.Error("expected empty lat to be missing")
	}
	if c := ds.Coordinates[0]; c.Lat.Float64 != 44.7439 || c.Lng.Float64 != 44.2031 {
		t.Errorf("unexpected coordinate: %+v", c)
	}
	if ds.Source != "csv" {
		t.Errorf("expected source csv, got %q", ds.Source)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	t.Parallel()

	src := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"), "also-absent.csv", DefaultSchema())
	if _, err := src.Load(context.Background()); !errors.Is(err, ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}
}

func TestDuckDBSourceLoad(t *testing.T) {
	t.Parallel()

	src := NewDuckDBSource(writeFixture(t, "pollution.csv", pollutionCSV), writeFixture(t, "cities.csv", citiesCSV), DefaultSchema())
	ds, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(ds.Measurements) != 5 || len(ds.Coordinates) != 3 {
		t.Fatalf("expected 5/3 rows, got %d/%d", len(ds.Measurements), len(ds.Coordinates))
	}
	for i, m := range ds.Measurements {
		if m.Row != i {
			t.Errorf("row %d carries identifier %d", i, m.Row)
		}
	}
	if ds.Measurements[3].City != "Przasnysz" {
		t.Errorf("expected insertion order preserved, got %q", ds.Measurements[3].City)
	}
	if ds.Measurements[4].Value(NO2).Valid {
		t.Error("expected NULL cell to be missing")
	}
}

func TestQuoteLiteral(t *testing.T) {
	t.Parallel()

	if got := quoteLiteral("/data/o'brien.csv"); got != "'/data/o''brien.csv'" {
		t.Errorf("unexpected literal: %s", got)
	}
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	for _, engine := range []string{"", EngineCSV, EngineDuckDB} {
		if _, err := NewSource(engine, "a", "b", DefaultSchema()); err != nil {
			t.Errorf("engine %q: unexpected error %v", engine, err)
		}
	}
	if _, err := NewSource("parquet", "a", "b", DefaultSchema()); err == nil {
		t.Error("expected error for unknown engine")
	}
}

type countingSource struct {
	loads atomic.Int32
	fail  atomic.Bool
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Load(context.Context) (*Dataset, error) {
	s.loads.Add(1)
	if s.fail.Load() {
		return nil, ErrLoad
	}
	return &Dataset{Measurements: []Measurement{{City: "Lyon"}}}, nil
}

func TestCacheLoadsOnce(t *testing.T) {
	t.Parallel()

	src := &countingSource{}
	cache := NewCache(src)
	if cache.Loaded() {
		t.Fatal("expected empty cache before first Get")
	}

	var wg sync.WaitGroup
	results := make([]*Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := cache.Get(context.Background())
			if err != nil {
				t.Errorf("Get returned error: %v", err)
			}
			results[i] = ds
		}(i)
	}
	wg.Wait()

	if got := src.loads.Load(); got != 1 {
		t.Errorf("expected 1 load, got %d", got)
	}
	for i, ds := range results {
		if ds != results[0] {
			t.Errorf("caller %d received a different dataset", i)
		}
	}
	if !cache.Loaded() {
		t.Error("expected cache to report loaded")
	}
}

func TestCacheRetriesAfterFailure(t *testing.T) {
	t.Parallel()

	src := &countingSource{}
	src.fail.Store(true)
	cache := NewCache(src)

	if _, err := cache.Get(context.Background()); !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	if cache.Loaded() {
		t.Fatal("failed load must not be cached")
	}

	src.fail.Store(false)
	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if got := src.loads.Load(); got != 2 {
		t.Errorf("expected 2 loads, got %d", got)
	}
}
