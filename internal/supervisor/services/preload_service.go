// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/logging"
)

// DatasetLoader is satisfied by *dataset.Cache.
type DatasetLoader interface {
	Get(ctx context.Context) (*dataset.Dataset, error)
}

// DatasetPreloadService loads the dataset once. A failed load is returned
// so the supervisor retries it with backoff; a successful one ends the
// service with suture.ErrDoNotRestart.
type DatasetPreloadService struct {
	loader DatasetLoader
	name   string
}

// NewDatasetPreloadService creates the service.
func NewDatasetPreloadService(loader DatasetLoader) *DatasetPreloadService {
	return &DatasetPreloadService{loader: loader, name: "dataset-preload"}
}

// Serve implements suture.Service.
func (s *DatasetPreloadService) Serve(ctx context.Context) error {
	ds, err := s.loader.Get(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("preload dataset: %w", err)
	}
	logging.Ctx(ctx).Info().
		Str("service", s.name).
		Int("measurements", len(ds.Measurements)).
		Int("coordinates", len(ds.Coordinates)).
		Msg("Dataset preloaded")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer for suture's logs.
func (s *DatasetPreloadService) String() string {
	return s.name
}
