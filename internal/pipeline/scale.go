// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package pipeline

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/airscope/internal/dataset"
)

// Matrix is the standardized feature matrix. IDs[i] is the Record.ID of
// Values[i].
type Matrix struct {
	IDs    []int
	Values [][]float64
	Means  [dataset.NumPollutants]float64
	Stds   [dataset.NumPollutants]float64

	// Dropped counts records excluded for a missing pollutant value.
	Dropped int
}

// Len returns the number of rows.
func (m *Matrix) Len() int { return len(m.IDs) }

// Scale standardizes the four pollutant columns of the complete records to
// zero mean and unit sample standard deviation. A column without spread
// scales to 0 for every row.
func Scale(records []Record) Matrix {
	var m Matrix
	complete := make([]*Record, 0, len(records))
	for i := range records {
		if records[i].Complete() {
			complete = append(complete, &records[i])
		}
	}
	m.Dropped = len(records) - len(complete)

	n := len(complete)
	m.IDs = make([]int, n)
	m.Values = make([][]float64, n)
	for i, r := range complete {
		m.IDs[i] = r.ID
		m.Values[i] = make([]float64, dataset.NumPollutants)
	}
	if n == 0 {
		return m
	}

	col := make([]float64, n)
	for _, p := range dataset.Pollutants {
		for i, r := range complete {
			col[i] = r.Value(p).Float64
		}
		mean, std := stat.MeanStdDev(col, nil)
		m.Means[p] = mean
		if n < 2 || math.IsNaN(std) || std == 0 {
			m.Stds[p] = 0
			continue
		}
		m.Stds[p] = std
		for i := range complete {
			m.Values[i][p] = (col[i] - mean) / std
		}
	}
	return m
}
