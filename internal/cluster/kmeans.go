// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package cluster

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// kmeans runs NInit seeded k-means++ restarts of Lloyd's algorithm and keeps
// the partition with the lowest inertia.
func kmeans(ctx context.Context, points [][]float64, p KMeansParams) ([]int, error) {
	n := len(points)
	if p.K > n {
		return nil, tooFewSamples(n, p.K)
	}

	nInit := p.NInit
	if nInit <= 0 {
		nInit = DefaultNInit
	}
	maxIter := p.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	tol := p.Tol * meanVariance(points)

	rng := rand.New(rand.NewSource(p.Seed)) //nolint:gosec // reproducible seeding, not security
	bestInertia := math.Inf(1)
	var best []int

	for run := 0; run < nInit; run++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		centers := seedPlusPlus(points, p.K, rng)
		labels, inertia, err := lloyd(ctx, points, centers, maxIter, tol)
		if err != nil {
			return nil, err
		}
		if inertia < bestInertia {
			bestInertia = inertia
			best = labels
		}
	}
	return best, nil
}

// seedPlusPlus picks k initial centres, each new one drawn with probability
// proportional to its squared distance from the nearest centre chosen so far.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.Intn(n)]))

	closest := make([]float64, n)
	for i := range points {
		closest[i] = sqDist(points[i], centers[0])
	}

	for len(centers) < k {
		total := floats.Sum(closest)
		next := rng.Intn(n)
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range closest {
				if d == 0 {
					continue
				}
				next = i
				acc += d
				if acc >= target {
					break
				}
			}
		}
		c := clone(points[next])
		centers = append(centers, c)
		for i := range points {
			if d := sqDist(points[i], c); d < closest[i] {
				closest[i] = d
			}
		}
	}
	return centers
}

// lloyd iterates assignment and update steps until the total squared centre
// shift drops to tol or maxIter is reached. Empty clusters keep their centre.
func lloyd(ctx context.Context, points [][]float64, centers [][]float64, maxIter int, tol float64) ([]int, float64, error) {
	k := len(centers)
	dim := len(points[0])
	labels := make([]int, len(points))
	sums := make([][]float64, k)
	for j := range sums {
		sums[j] = make([]float64, dim)
	}
	counts := make([]int, k)

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		assign(points, centers, labels)

		for j := range sums {
			floats.Scale(0, sums[j])
			counts[j] = 0
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}

		shift := 0.0
		for j := range centers {
			if counts[j] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[j]), sums[j])
			shift += sqDist(centers[j], sums[j])
			copy(centers[j], sums[j])
		}
		if shift <= tol {
			break
		}
	}

	inertia := assign(points, centers, labels)
	return labels, inertia, nil
}

// assign labels every point with its nearest centre and returns the inertia.
func assign(points [][]float64, centers [][]float64, labels []int) float64 {
	inertia := 0.0
	for i, p := range points {
		best, bestDist := 0, math.Inf(1)
		for j, c := range centers {
			if d := sqDist(p, c); d < bestDist {
				best, bestDist = j, d
			}
		}
		labels[i] = best
		inertia += bestDist
	}
	return inertia
}

// meanVariance is the mean of the per-feature population variances.
func meanVariance(points [][]float64) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	dim := len(points[0])
	col := make([]float64, n)
	total := 0.0
	for f := 0; f < dim; f++ {
		for i, p := range points {
			col[i] = p[f]
		}
		total += stat.Variance(col, nil) * float64(n-1) / float64(n)
	}
	return total / float64(dim)
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
