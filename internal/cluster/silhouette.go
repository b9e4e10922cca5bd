// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package cluster

import (
	"gonum.org/v1/gonum/floats"
)

// Score is a silhouette score that may be unavailable. Value is meaningful
// only when Available is true.
type Score struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// Unavailable is the Score returned when the silhouette is undefined.
var Unavailable = Score{}

// Silhouette returns the mean silhouette coefficient of labels over points
// using Euclidean distance. Noise is scored as a cluster of its own. The score
// is unavailable unless there are between 2 and n-1 distinct labels; rows in
// singleton clusters contribute 0.
func Silhouette(points [][]float64, labels []int) Score {
	n := len(points)
	if n == 0 || len(labels) != n {
		return Unavailable
	}

	index := make(map[int]int)
	for _, l := range labels {
		if _, ok := index[l]; !ok {
			index[l] = len(index)
		}
	}
	k := len(index)
	if k < 2 || k > n-1 {
		return Unavailable
	}

	member := make([]int, n)
	counts := make([]float64, k)
	for i, l := range labels {
		member[i] = index[l]
		counts[member[i]]++
	}

	sums := make([]float64, k)
	total := 0.0
	for i := range points {
		for c := range sums {
			sums[c] = 0
		}
		for j := range points {
			if i != j {
				sums[member[j]] += floats.Distance(points[i], points[j], 2)
			}
		}

		own := member[i]
		if counts[own] <= 1 {
			continue
		}
		a := sums[own] / (counts[own] - 1)
		b := -1.0
		for c := range sums {
			if c == own {
				continue
			}
			if d := sums[c] / counts[c]; b < 0 || d < b {
				b = d
			}
		}
		if m := max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return Score{Value: total / float64(n), Available: true}
}
