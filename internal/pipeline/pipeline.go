// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package pipeline turns a loaded dataset into a clustering result: join the
// measurements with coordinates, filter by country, standardize the
// pollutant features, cluster them and score the partition.
//
// Labels are attached to records by Record.ID, never by position, so rows
// dropped for missing features simply carry no label.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/airscope/internal/cluster"
	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/logging"
	"github.com/tomtom215/airscope/internal/metrics"
)

// Request selects the rows and the algorithm of one run.
type Request struct {
	Country string
	Params  cluster.Params
}

// Counts reports how many rows survived each stage.
type Counts struct {
	Joined         int `json:"joined"`
	Filtered       int `json:"filtered"`
	Clustered      int `json:"clustered"`
	DroppedMissing int `json:"dropped_missing"`
}

// Result is the outcome of one run.
type Result struct {
	Country  string
	Params   cluster.Params
	Records  []Record
	Labels   map[int]int
	Features Matrix
	Score    cluster.Score
	Summary  []ClusterSummary
	Clusters int
	Noise    int
	Counts   Counts
	Duration time.Duration
}

// Label returns the cluster label of the record with id.
func (r *Result) Label(id int) (int, bool) {
	l, ok := r.Labels[id]
	return l, ok
}

// Run executes the full pipeline over ds.
//
// An empty selection returns an error wrapping cluster.ErrNoData before any
// algorithm runs. Algorithm errors are returned wrapped.
func Run(ctx context.Context, ds *dataset.Dataset, req Request) (*Result, error) {
	if req.Params == nil {
		return nil, fmt.Errorf("%w: no algorithm selected", cluster.ErrUnknownAlgorithm)
	}
	algorithm := req.Params.Kind().String()
	start := time.Now()

	res, err := run(ctx, ds, req)
	elapsed := time.Since(start)

	logger := logging.Ctx(ctx).With().Str("component", "pipeline").Str("algorithm", algorithm).Str("country", req.Country).Logger()
	if err != nil {
		metrics.RecordClusterRun(algorithm, elapsed, 0, 0, 0, false, err)
		logger.Warn().Err(err).Dur("duration", elapsed).Msg("Clustering run failed")
		return nil, err
	}
	res.Duration = elapsed

	metrics.RecordClusterRun(algorithm, elapsed, res.Counts.Clustered, res.Clusters, res.Score.Value, res.Score.Available, nil)
	event := logger.Info().
		Int("rows", res.Counts.Clustered).
		Int("dropped_missing", res.Counts.DroppedMissing).
		Int("clusters", res.Clusters).
		Int("noise", res.Noise).
		Dur("duration", elapsed)
	if res.Score.Available {
		event = event.Float64("silhouette", res.Score.Value)
	}
	event.Msg("Clustering run finished")
	return res, nil
}

func run(ctx context.Context, ds *dataset.Dataset, req Request) (*Result, error) {
	joined := Join(ds.Measurements, ds.Coordinates)
	filtered := Filter(joined, req.Country)

	res := &Result{
		Country: req.Country,
		Params:  req.Params,
		Records: filtered,
		Counts:  Counts{Joined: len(joined), Filtered: len(filtered)},
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("country %q: %w", displayCountry(req.Country), cluster.ErrNoData)
	}

	res.Features = Scale(filtered)
	res.Counts.Clustered = res.Features.Len()
	res.Counts.DroppedMissing = res.Features.Dropped
	if res.Features.Len() == 0 {
		return nil, fmt.Errorf("country %q: every row lacks a pollutant value: %w", displayCountry(req.Country), cluster.ErrNoData)
	}

	labels, err := cluster.Fit(ctx, res.Features.Values, req.Params)
	if err != nil {
		return nil, fmt.Errorf("%s clustering: %w", req.Params.Kind().DisplayName(), err)
	}

	res.Labels = make(map[int]int, len(labels))
	for i, id := range res.Features.IDs {
		res.Labels[id] = labels[i]
	}
	res.Clusters = cluster.CountClusters(labels)
	res.Noise = cluster.CountNoise(labels)
	res.Score = cluster.Silhouette(res.Features.Values, labels)
	res.Summary = Summarize(filtered, res.Labels)
	return res, nil
}

func displayCountry(country string) string {
	if country == "" {
		return AllCountries
	}
	return country
}
