// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/pipeline"
)

// BoxStats is a five-number summary with whiskers at 1.5 IQR.
type BoxStats struct {
	Pollutant dataset.Pollutant
	Count     int
	Lower     float64
	Q1        float64
	Median    float64
	Q3        float64
	Upper     float64
	Outliers  int
}

// Values returns the summary in box plot order.
func (b BoxStats) Values() []float64 {
	return []float64{b.Lower, b.Q1, b.Median, b.Q3, b.Upper}
}

// Distribution computes one BoxStats per pollutant over the present values.
func Distribution(records []pipeline.Record) []BoxStats {
	out := make([]BoxStats, 0, dataset.NumPollutants)
	for _, p := range dataset.Pollutants {
		out = append(out, boxStats(p, column(records, p)))
	}
	return out
}

func boxStats(p dataset.Pollutant, values []float64) BoxStats {
	b := BoxStats{Pollutant: p, Count: len(values)}
	if len(values) == 0 {
		return b
	}
	sort.Float64s(values)

	b.Q1 = quantile(values, 0.25)
	b.Median = quantile(values, 0.5)
	b.Q3 = quantile(values, 0.75)

	iqr := b.Q3 - b.Q1
	lowFence, highFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.Lower, b.Upper = values[len(values)-1], values[0]
	for _, v := range values {
		if v < lowFence || v > highFence {
			b.Outliers++
			continue
		}
		b.Lower = math.Min(b.Lower, v)
		b.Upper = math.Max(b.Upper, v)
	}
	return b
}

// quantile interpolates linearly at rank (n-1)*p of sorted, the convention
// of numpy's default percentile.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Correlation returns the pairwise Pearson correlation of the pollutants,
// each pair computed over the records where both values are present. Pairs
// without a defined correlation are NaN.
func Correlation(records []pipeline.Record) [dataset.NumPollutants][dataset.NumPollutants]float64 {
	var out [dataset.NumPollutants][dataset.NumPollutants]float64
	for _, a := range dataset.Pollutants {
		for _, b := range dataset.Pollutants {
			if b < a {
				out[a][b] = out[b][a]
				continue
			}
			x, y := pairs(records, a, b)
			out[a][b] = pearson(x, y)
		}
	}
	return out
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}

func column(records []pipeline.Record, p dataset.Pollutant) []float64 {
	out := make([]float64, 0, len(records))
	for i := range records {
		if v := records[i].Value(p); v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}

func pairs(records []pipeline.Record, a, b dataset.Pollutant) (x, y []float64) {
	for i := range records {
		va, vb := records[i].Value(a), records[i].Value(b)
		if va.Valid && vb.Valid {
			x = append(x, va.Float64)
			y = append(y, vb.Float64)
		}
	}
	return x, y
}
