// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/pipeline"
)

// Download names and media types.
const (
	CSVFilename  = "pollution_clusters.csv"
	CSVMediaType = "text/csv"

	XLSXFilename  = "pollution_clusters.xlsx"
	XLSXMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	XLSXSheet     = "Clusters"
)

// ClusterColumn is the header of the label column appended to exports.
const ClusterColumn = "Cluster"

// Header returns the export column names.
func Header() []string {
	h := []string{"Country", "City", "AQI Value", "AQI Category"}
	for _, p := range dataset.Pollutants {
		h = append(h, p.Column())
	}
	return append(h, "lat", "lng", ClusterColumn)
}

// exportRow returns the typed cells of one record. Missing values are nil.
func exportRow(res *pipeline.Result, r *pipeline.Record) []any {
	row := []any{r.Country, r.City, nullable(r.AQI.Float64, r.AQI.Valid), r.Category}
	for _, p := range dataset.Pollutants {
		v := r.Value(p)
		row = append(row, nullable(v.Float64, v.Valid))
	}
	row = append(row, r.Lat, r.Lng)
	if label, ok := res.Label(r.ID); ok {
		row = append(row, label)
	} else {
		row = append(row, nil)
	}
	return row
}

func nullable(v float64, valid bool) any {
	if !valid {
		return nil
	}
	return v
}

// WriteCSV writes every filtered record with its cluster label.
func WriteCSV(w io.Writer, res *pipeline.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(Header()))
	for i := range res.Records {
		for j, v := range exportRow(res, &res.Records[i]) {
			record[j] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// WriteXLSX writes the same table as WriteCSV into the Clusters sheet of a
// spreadsheet workbook.
func WriteXLSX(w io.Writer, res *pipeline.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), XLSXSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(XLSXSheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	header := Header()
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := sw.SetRow("A1", cells); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i := range res.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, exportRow(res, &res.Records[i])); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush xlsx: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
