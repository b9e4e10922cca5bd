// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/airscope/internal/logging"
	"github.com/tomtom215/airscope/internal/metrics"
)

// Cache loads a Source on first use and keeps the result for the lifetime
// of the process. A failed load is not remembered; the next Get retries.
// Concurrent callers wait for the same load.
type Cache struct {
	source Source

	mu   sync.Mutex
	data atomic.Pointer[Dataset]
}

// NewCache creates a Cache over source.
func NewCache(source Source) *Cache {
	return &Cache{source: source}
}

// Get returns the loaded dataset, loading it if necessary.
func (c *Cache) Get(ctx context.Context) (*Dataset, error) {
	if data := c.data.Load(); data != nil {
		metrics.DatasetCacheHits.Inc()
		return data, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if data := c.data.Load(); data != nil {
		metrics.DatasetCacheHits.Inc()
		return data, nil
	}
	metrics.DatasetCacheMisses.Inc()

	start := time.Now()
	data, err := c.source.Load(ctx)
	elapsed := time.Since(start)
	metrics.DatasetLoadDuration.WithLabelValues(c.source.Name()).Observe(elapsed.Seconds())
	if err != nil {
		metrics.DatasetLoadErrors.WithLabelValues(c.source.Name()).Inc()
		logging.Ctx(ctx).Error().Err(err).Str("source", c.source.Name()).Msg("Dataset load failed")
		return nil, err
	}

	metrics.DatasetRows.WithLabelValues("pollution").Set(float64(len(data.Measurements)))
	metrics.DatasetRows.WithLabelValues("cities").Set(float64(len(data.Coordinates)))
	logging.Ctx(ctx).Info().
		Str("source", c.source.Name()).
		Int("measurements", len(data.Measurements)).
		Int("coordinates", len(data.Coordinates)).
		Dur("duration", elapsed).
		Msg("Dataset loaded")

	c.data.Store(data)
	return data, nil
}

// Loaded reports whether a dataset is held.
func (c *Cache) Loaded() bool {
	return c.data.Load() != nil
}
