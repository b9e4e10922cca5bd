// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package cluster

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// merge records that the clusters holding rows a and b were joined at height.
type merge struct {
	a, b   int
	height float64
}

// ward builds the full Ward dendrogram with the nearest-neighbour chain
// algorithm and cuts it into p.K clusters. Memory stays linear in the number
// of rows because linkage distances are computed from centroids on demand.
func ward(ctx context.Context, points [][]float64, p HierarchicalParams) ([]int, error) {
	n := len(points)
	if p.K > n {
		return nil, tooFewSamples(n, p.K)
	}

	merges, err := wardMerges(ctx, points)
	if err != nil {
		return nil, err
	}
	return cutTree(n, merges, p.K), nil
}

func wardMerges(ctx context.Context, points [][]float64) ([]merge, error) {
	n := len(points)
	centroids := make([][]float64, n)
	sizes := make([]float64, n)
	for i, pt := range points {
		centroids[i] = clone(pt)
		sizes[i] = 1
	}

	// alive holds the slot of every unmerged cluster; pos maps slot to index in alive.
	alive := make([]int, n)
	pos := make([]int, n)
	for i := range alive {
		alive[i] = i
		pos[i] = i
	}
	remove := func(slot int) {
		idx := pos[slot]
		last := alive[len(alive)-1]
		alive[idx] = last
		pos[last] = idx
		alive = alive[:len(alive)-1]
		pos[slot] = -1
	}

	linkage := func(a, b int) float64 {
		na, nb := sizes[a], sizes[b]
		return math.Sqrt(2*na*nb/(na+nb)) * floats.Distance(centroids[a], centroids[b], 2)
	}

	merges := make([]merge, 0, n-1)
	chain := make([]int, 0, n)
	for steps := 0; len(alive) > 1; steps++ {
		if steps%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if len(chain) == 0 {
			chain = append(chain, alive[0])
		}
		a := chain[len(chain)-1]
		prev := -1
		best, bestDist := -1, math.Inf(1)
		if len(chain) > 1 {
			prev = chain[len(chain)-2]
			best, bestDist = prev, linkage(a, prev)
		}
		for _, c := range alive {
			if c == a {
				continue
			}
			if d := linkage(a, c); d < bestDist {
				best, bestDist = c, d
			}
		}

		if best != prev {
			chain = append(chain, best)
			continue
		}

		chain = chain[:len(chain)-2]
		merges = append(merges, merge{a: a, b: prev, height: bestDist})
		na, nb := sizes[a], sizes[prev]
		floats.Scale(na, centroids[a])
		floats.AddScaled(centroids[a], nb, centroids[prev])
		floats.Scale(1/(na+nb), centroids[a])
		sizes[a] = na + nb
		remove(prev)
	}
	return merges, nil
}

// cutTree applies the n-k lowest merges and numbers the resulting clusters
// in order of their first row.
func cutTree(n int, merges []merge, k int) []int {
	sort.SliceStable(merges, func(i, j int) bool {
		return merges[i].height < merges[j].height
	})

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	for _, m := range merges[:n-k] {
		ra, rb := find(m.a), find(m.b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	labels := make([]int, n)
	ids := make(map[int]int, k)
	for i := range labels {
		root := find(i)
		id, ok := ids[root]
		if !ok {
			id = len(ids)
			ids[root] = id
		}
		labels[i] = id
	}
	return labels
}
