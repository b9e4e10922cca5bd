// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package cluster partitions a scaled feature matrix with one of three
// algorithms and scores the resulting partition.
//
// The algorithm is chosen by passing exactly one parameter struct to Fit:
//
//	labels, err := cluster.Fit(ctx, points, cluster.KMeans(4))
//	labels, err := cluster.Fit(ctx, points, cluster.DBSCAN(1.2, 5))
//	labels, err := cluster.Fit(ctx, points, cluster.Hierarchical(4))
//
// Labels are aligned with the input rows. DBSCAN marks noise with Noise (-1);
// K-Means and Hierarchical always produce labels 0..K-1.
//
// All three algorithms are deterministic: K-Means uses a fixed seed, DBSCAN
// visits rows in order and the hierarchical merge order is fully determined
// by the data.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Noise is the label DBSCAN assigns to points that belong to no cluster.
const Noise = -1

// Parameter defaults and the accepted ranges offered to callers.
const (
	DefaultK          = 4
	MinK              = 2
	MaxK              = 10
	DefaultEps        = 1.2
	MinEps            = 0.1
	MaxEps            = 5.0
	DefaultMinSamples = 5
	MinMinSamples     = 2
	MaxMinSamples     = 20

	DefaultSeed    int64 = 42
	DefaultNInit         = 10
	DefaultMaxIter       = 300
	DefaultTol           = 1e-4
)

var (
	// ErrNoData is returned when the feature matrix has no rows.
	ErrNoData = errors.New("no data to cluster")

	// ErrInvalidParameter is returned for parameters the algorithms cannot run with.
	ErrInvalidParameter = errors.New("invalid clustering parameter")

	// ErrTooFewSamples is returned when more clusters are requested than there are rows.
	ErrTooFewSamples = errors.New("too few samples for the requested number of clusters")

	// ErrUnknownAlgorithm is returned for a Kind or Params value outside the supported set.
	ErrUnknownAlgorithm = errors.New("unknown clustering algorithm")
)

// Kind identifies a clustering algorithm.
type Kind int

const (
	KindKMeans Kind = iota + 1
	KindDBSCAN
	KindHierarchical
)

// Kinds lists every supported algorithm in selector order.
var Kinds = []Kind{KindKMeans, KindDBSCAN, KindHierarchical}

// String returns the URL-friendly name of the algorithm.
func (k Kind) String() string {
	switch k {
	case KindKMeans:
		return "kmeans"
	case KindDBSCAN:
		return "dbscan"
	case KindHierarchical:
		return "hierarchical"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DisplayName returns the human-readable algorithm name.
func (k Kind) DisplayName() string {
	switch k {
	case KindKMeans:
		return "K-Means"
	case KindDBSCAN:
		return "DBSCAN"
	case KindHierarchical:
		return "Hierarchical"
	default:
		return k.String()
	}
}

// ParseKind accepts both display names ("K-Means") and URL names ("kmeans").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kmeans", "k-means", "k_means":
		return KindKMeans, nil
	case "dbscan":
		return KindDBSCAN, nil
	case "hierarchical", "agglomerative", "ward":
		return KindHierarchical, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Params is the closed set of algorithm configurations accepted by Fit.
// It is implemented only by KMeansParams, DBSCANParams and HierarchicalParams.
type Params interface {
	Kind() Kind
	validate() error
}

// KMeansParams configures K-Means.
type KMeansParams struct {
	K       int
	Seed    int64
	NInit   int
	MaxIter int
	Tol     float64
}

// DBSCANParams configures DBSCAN.
type DBSCANParams struct {
	Eps        float64
	MinSamples int
}

// HierarchicalParams configures agglomerative clustering with Ward linkage.
type HierarchicalParams struct {
	K int
}

// KMeans returns K-Means parameters with the default seed and iteration settings.
func KMeans(k int) KMeansParams {
	return KMeansParams{
		K:       k,
		Seed:    DefaultSeed,
		NInit:   DefaultNInit,
		MaxIter: DefaultMaxIter,
		Tol:     DefaultTol,
	}
}

// DBSCAN returns DBSCAN parameters.
func DBSCAN(eps float64, minSamples int) DBSCANParams {
	return DBSCANParams{Eps: eps, MinSamples: minSamples}
}

// Hierarchical returns Ward agglomerative parameters.
func Hierarchical(k int) HierarchicalParams {
	return HierarchicalParams{K: k}
}

// Kind implements Params.
func (KMeansParams) Kind() Kind { return KindKMeans }

// Kind implements Params.
func (DBSCANParams) Kind() Kind { return KindDBSCAN }

// Kind implements Params.
func (HierarchicalParams) Kind() Kind { return KindHierarchical }

func (p KMeansParams) validate() error {
	if p.K <= 1 {
		return fmt.Errorf("%w: k must be at least 2, got %d", ErrInvalidParameter, p.K)
	}
	if p.NInit < 0 || p.MaxIter < 0 || p.Tol < 0 {
		return fmt.Errorf("%w: n_init, max_iter and tol must not be negative", ErrInvalidParameter)
	}
	return nil
}

func (p DBSCANParams) validate() error {
	if !(p.Eps > 0) {
		return fmt.Errorf("%w: eps must be positive, got %v", ErrInvalidParameter, p.Eps)
	}
	if p.MinSamples <= 0 {
		return fmt.Errorf("%w: min_samples must be positive, got %d", ErrInvalidParameter, p.MinSamples)
	}
	return nil
}

func (p HierarchicalParams) validate() error {
	if p.K <= 1 {
		return fmt.Errorf("%w: k must be at least 2, got %d", ErrInvalidParameter, p.K)
	}
	return nil
}

// Fit clusters points and returns one label per row.
//
// Errors wrap ErrNoData, ErrInvalidParameter, ErrTooFewSamples or
// ErrUnknownAlgorithm; a cancelled ctx returns ctx.Err().
func Fit(ctx context.Context, points [][]float64, params Params) ([]int, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: no parameters", ErrUnknownAlgorithm)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrNoData
	}
	if err := checkDimensions(points); err != nil {
		return nil, err
	}

	switch p := params.(type) {
	case KMeansParams:
		return kmeans(ctx, points, p)
	case DBSCANParams:
		return dbscan(ctx, points, p)
	case HierarchicalParams:
		return ward(ctx, points, p)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownAlgorithm, params)
	}
}

// CountClusters returns the number of distinct non-noise labels.
func CountClusters(labels []int) int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		if l != Noise {
			seen[l] = struct{}{}
		}
	}
	return len(seen)
}

// CountNoise returns how many labels are Noise.
func CountNoise(labels []int) int {
	n := 0
	for _, l := range labels {
		if l == Noise {
			n++
		}
	}
	return n
}

func checkDimensions(points [][]float64) error {
	dim := len(points[0])
	if dim == 0 {
		return fmt.Errorf("%w: rows have no features", ErrInvalidParameter)
	}
	for i, p := range points {
		if len(p) != dim {
			return fmt.Errorf("%w: row %d has %d features, expected %d", ErrInvalidParameter, i, len(p), dim)
		}
	}
	return nil
}

func tooFewSamples(n, k int) error {
	return fmt.Errorf("%w: n_samples=%d should be >= n_clusters=%d", ErrTooFewSamples, n, k)
}
