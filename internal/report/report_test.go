// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package report

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tomtom215/airscope/internal/cluster"
	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/pipeline"
)

func num(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func record(id int, city string, no2, ozone, pm25, co float64) pipeline.Record {
	return pipeline.Record{
		ID: id,
		Measurement: dataset.Measurement{
			Row:      id,
			City:     city,
			Country:  "Land",
			AQI:      num(pm25),
			Category: "Good",
			Values:   [dataset.NumPollutants]sql.NullFloat64{num(no2), num(ozone), num(pm25), num(co)},
		},
		Lat: float64(id),
		Lng: -float64(id),
	}
}

func sampleResult() *pipeline.Result {
	records := []pipeline.Record{
		record(0, "A", 1, 10, 2, 1),
		record(1, "B", 2, 20, 4, 1),
		record(2, "C", 3, 30, 6, 2),
		record(3, "D", 100, 40, 200, 8),
	}
	records = append(records, pipeline.Record{ID: 4, Measurement: dataset.Measurement{City: "E", Country: "Land"}})
	labels := map[int]int{0: 0, 1: 0, 2: 0, 3: cluster.Noise}
	return &pipeline.Result{
		Records: records,
		Labels:  labels,
		Summary: pipeline.Summarize(records, labels),
		Params:  cluster.DBSCAN(1.2, 2),
	}
}

func TestDistribution(t *testing.T) {
	t.Parallel()

	records := make([]pipeline.Record, 0, 9)
	for i, v := range []float64{1, 2, 3, 4, 5, 6, 7, 8, 100} {
		records = append(records, record(i, "x", v, v, v, v))
	}

	stats := Distribution(records)
	if len(stats) != dataset.NumPollutants {
		t.Fatalf("expected %d summaries, got %d", dataset.NumPollutants, len(stats))
	}
	b := stats[dataset.NO2]
	if b.Count != 9 {
		t.Errorf("expected count 9, got %d", b.Count)
	}
	if b.Outliers != 1 {
		t.Errorf("expected 1 outlier, got %d", b.Outliers)
	}
	if b.Upper != 8 || b.Lower != 1 {
		t.Errorf("expected whiskers 1..8, got %v..%v", b.Lower, b.Upper)
	}
	if !(b.Q1 <= b.Median && b.Median <= b.Q3) {
		t.Errorf("quartiles out of order: %+v", b)
	}
	if len(b.Values()) != 5 {
		t.Errorf("expected five box plot values, got %d", len(b.Values()))
	}
}

func TestQuantile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"first quartile of four", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"median of four", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"third quartile of four", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"exact rank", []float64{1, 2, 3, 4, 5, 6, 7, 8, 100}, 0.25, 3},
		{"single value", []float64{7}, 0.75, 7},
		{"maximum", []float64{1, 5}, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := quantile(tt.values, tt.p); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("quantile(%v, %v) = %v, want %v", tt.values, tt.p, got, tt.want)
			}
		})
	}
}

func TestDistributionQuartiles(t *testing.T) {
	t.Parallel()

	records := make([]pipeline.Record, 0, 4)
	for i, v := range []float64{4, 1, 3, 2} {
		records = append(records, record(i, "x", v, v, v, v))
	}
	b := Distribution(records)[dataset.PM25]
	if b.Q1 != 1.75 || b.Median != 2.5 || b.Q3 != 3.25 {
		t.Errorf("expected quartiles 1.75/2.5/3.25, got %v/%v/%v", b.Q1, b.Median, b.Q3)
	}
}

func TestDistributionEmpty(t *testing.T) {
	t.Parallel()

	for _, b := range Distribution(nil) {
		if b.Count != 0 || b.Outliers != 0 {
			t.Errorf("expected empty summary, got %+v", b)
		}
	}
}

func TestCorrelation(t *testing.T) {
	t.Parallel()

	records := []pipeline.Record{
		record(0, "a", 1, 3, 5, 7),
		record(1, "b", 2, 2, 5, 8),
		record(2, "c", 3, 1, 5, 9),
	}
	corr := Correlation(records)

	if math.Abs(corr[dataset.NO2][dataset.CO]-1) > 1e-12 {
		t.Errorf("expected perfect positive correlation, got %v", corr[dataset.NO2][dataset.CO])
	}
	if math.Abs(corr[dataset.NO2][dataset.Ozone]+1) > 1e-12 {
		t.Errorf("expected perfect negative correlation, got %v", corr[dataset.NO2][dataset.Ozone])
	}
	if corr[dataset.Ozone][dataset.NO2] != corr[dataset.NO2][dataset.Ozone] {
		t.Error("expected symmetric matrix")
	}
	if !math.IsNaN(corr[dataset.PM25][dataset.NO2]) {
		t.Errorf("expected NaN for constant column, got %v", corr[dataset.PM25][dataset.NO2])
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header plus 5 rows, got %d", len(rows))
	}
	header := rows[0]
	if header[len(header)-1] != ClusterColumn {
		t.Errorf("expected last column %q, got %q", ClusterColumn, header[len(header)-1])
	}
	last := len(header) - 1
	if rows[1][last] != "0" || rows[4][last] != "-1" {
		t.Errorf("unexpected labels: %q, %q", rows[1][last], rows[4][last])
	}
	if rows[5][last] != "" {
		t.Errorf("expected empty label for unclustered row, got %q", rows[5][last])
	}
	if rows[4][1] != "D" || rows[4][4] != "100" || rows[4][7] != "8" {
		t.Errorf("unexpected values in row D: %v", rows[4])
	}
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteXLSX returned error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("output is not a workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	if name := f.GetSheetName(0); name != XLSXSheet {
		t.Errorf("expected sheet %q, got %q", XLSXSheet, name)
	}
	rows, err := f.GetRows(XLSXSheet)
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header plus 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "Country" {
		t.Errorf("expected first header Country, got %q", rows[0][0])
	}
	if rows[2][1] != "B" {
		t.Errorf("expected city B in row 3, got %q", rows[2][1])
	}
	if got := rows[4][len(Header())-1]; got != "-1" {
		t.Errorf("expected noise label -1, got %q", got)
	}
}

func TestRenderDashboard(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderDashboard(&buf, sampleResult()); err != nil {
		t.Fatalf("RenderDashboard returned error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"Pollutant Distribution",
		"Correlation Heatmap",
		"Average Pollution per Cluster",
		"NO2 vs PM2.5",
		"Cluster 0",
		"Noise",
		"A, Land",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected dashboard to contain %q", want)
		}
	}
}

func TestScatterMatrixPairs(t *testing.T) {
	t.Parallel()

	if got := len(ScatterMatrix(sampleResult())); got != 6 {
		t.Errorf("expected 6 pair charts, got %d", got)
	}
}

func TestClusterName(t *testing.T) {
	t.Parallel()

	if ClusterName(cluster.Noise) != "Noise" || ClusterName(2) != "Cluster 2" {
		t.Errorf("unexpected names: %q, %q", ClusterName(cluster.Noise), ClusterName(2))
	}
}
