// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package pipeline

import (
	"math"
	"sort"

	"github.com/tomtom215/airscope/internal/dataset"
)

// ClusterSummary holds the mean raw pollutant values of one cluster,
// rounded to two decimals.
type ClusterSummary struct {
	Label int
	Count int
	Means [dataset.NumPollutants]float64
}

// Summarize groups the labelled records by label and averages each
// pollutant. Records without a label are skipped. Summaries are ordered by
// label, so noise comes first when present.
func Summarize(records []Record, labels map[int]int) []ClusterSummary {
	type acc struct {
		count int
		sums  [dataset.NumPollutants]float64
		seen  [dataset.NumPollutants]int
	}
	groups := make(map[int]*acc)
	for i := range records {
		label, ok := labels[records[i].ID]
		if !ok {
			continue
		}
		g := groups[label]
		if g == nil {
			g = &acc{}
			groups[label] = g
		}
		g.count++
		for _, p := range dataset.Pollutants {
			if v := records[i].Value(p); v.Valid {
				g.sums[p] += v.Float64
				g.seen[p]++
			}
		}
	}

	out := make([]ClusterSummary, 0, len(groups))
	for label, g := range groups {
		s := ClusterSummary{Label: label, Count: g.count}
		for _, p := range dataset.Pollutants {
			if g.seen[p] == 0 {
				s.Means[p] = math.NaN()
				continue
			}
			s.Means[p] = round2(g.sums[p] / float64(g.seen[p]))
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
