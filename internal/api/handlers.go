// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package api

import (
	"context"
	"time"

	"github.com/tomtom215/airscope/internal/cache"
	"github.com/tomtom215/airscope/internal/config"
	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/logging"
	"github.com/tomtom215/airscope/internal/pipeline"
)

// ResultCacheName labels the result cache in metrics.
const ResultCacheName = "result"

// Handler serves the clustering endpoints.
type Handler struct {
	data      *dataset.Cache
	results   *cache.Cache[*pipeline.Result]
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a Handler. results may be nil to disable result caching.
func NewHandler(data *dataset.Cache, results *cache.Cache[*pipeline.Result], cfg *config.Config) *Handler {
	return &Handler{
		data:      data,
		results:   results,
		config:    cfg,
		startTime: time.Now(),
	}
}

// run returns the result of req, from the result cache when possible.
// The boolean reports a cache hit.
func (h *Handler) run(ctx context.Context, req *ClusterRequest) (*pipeline.Result, bool, error) {
	key := req.cacheKey()
	if h.results != nil {
		if res, ok := h.results.Get(key); ok {
			return res, true, nil
		}
	}

	ds, err := h.data.Get(ctx)
	if err != nil {
		return nil, false, err
	}

	if timeout := h.config.Cluster.RunTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := pipeline.Run(ctx, ds, pipeline.Request{Country: req.Country, Params: req.Params()})
	if err != nil {
		return nil, false, err
	}

	if h.results != nil {
		h.results.Set(key, res)
		logging.Ctx(ctx).Debug().Str("key", key).Msg("Cached clustering result")
	}
	return res, false, nil
}
