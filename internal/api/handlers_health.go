// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package api

import (
	"net/http"
	"time"
)

// LiveStatus is the liveness payload.
type LiveStatus struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime_seconds"`
}

// ReadyStatus is the readiness payload.
type ReadyStatus struct {
	Status       string       `json:"status"`
	Source       string       `json:"source,omitempty"`
	Measurements int          `json:"measurements"`
	Coordinates  int          `json:"coordinates"`
	LoadedAt     *time.Time   `json:"loaded_at,omitempty"`
	ResultCache  *CacheStatus `json:"result_cache,omitempty"`
}

// CacheStatus reports result cache activity. Absent when caching is off.
type CacheStatus struct {
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	Evictions  int64   `json:"evictions"`
	Keys       int64   `json:"keys"`
	HitRate    float64 `json:"hit_rate_percent"`
	TTLSeconds float64 `json:"ttl_seconds"`
}

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, LiveStatus{
		Status: "alive",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady reports whether the dataset is loaded. It never triggers a load.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.data.Loaded() {
		NewResponseWriter(w, r).ServiceUnavailable("Dataset not loaded")
		return
	}

	ds, err := h.data.Get(r.Context())
	if err != nil {
		respondRunError(w, r, err)
		return
	}
	loadedAt := ds.LoadedAt
	WriteSuccess(w, r, ReadyStatus{
		Status:       "ready",
		Source:       ds.Source,
		Measurements: len(ds.Measurements),
		Coordinates:  len(ds.Coordinates),
		LoadedAt:     &loadedAt,
		ResultCache:  h.cacheStatus(),
	})
}

func (h *Handler) cacheStatus() *CacheStatus {
	if h.results == nil {
		return nil
	}
	stats := h.results.GetStats()
	return &CacheStatus{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Evictions:  stats.Evictions,
		Keys:       stats.TotalKeys,
		HitRate:    stats.HitRate(),
		TTLSeconds: h.results.TTL().Seconds(),
	}
}
