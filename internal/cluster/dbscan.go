// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package cluster

import (
	"context"

	"gonum.org/v1/gonum/floats"
)

// ctxCheckEvery bounds how many rows the quadratic loops process between
// context checks.
const ctxCheckEvery = 256

// dbscan labels density-connected regions. A point is a core point when at
// least MinSamples points, itself included, lie within Eps. Clusters grow from
// core points in row order; a border point keeps the first cluster that
// reaches it. Everything else is Noise.
func dbscan(ctx context.Context, points [][]float64, p DBSCANParams) ([]int, error) {
	n := len(points)
	core := make([]bool, n)
	for i := range points {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		count := 0
		for j := range points {
			if floats.Distance(points[i], points[j], 2) <= p.Eps {
				count++
			}
		}
		core[i] = count >= p.MinSamples
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}

	next := 0
	var stack []int
	for i := range points {
		if labels[i] != Noise || !core[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		labels[i] = next
		stack = append(stack[:0], i)
		for len(stack) > 0 {
			q := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for j := range points {
				if labels[j] != Noise || floats.Distance(points[q], points[j], 2) > p.Eps {
					continue
				}
				labels[j] = next
				if core[j] {
					stack = append(stack, j)
				}
			}
		}
		next++
	}
	return labels, nil
}
