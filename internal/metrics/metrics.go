// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package metrics declares the Prometheus collectors exported at /metrics.
//
// Collectors are registered with the default registry at package init via
// promauto. The Record helpers keep label handling in one place.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Dataset Metrics
	DatasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataset_load_duration_seconds",
			Help:    "Time spent reading the source tables",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	DatasetLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_load_errors_total",
			Help: "Total number of failed dataset loads",
		},
		[]string{"engine"},
	)

	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_rows",
			Help: "Rows held in memory per source table",
		},
		[]string{"table"},
	)

	DatasetCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_cache_hits_total",
			Help: "Dataset requests served from memory",
		},
	)

	DatasetCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_cache_misses_total",
			Help: "Dataset requests that triggered a load",
		},
	)

	// Clustering Metrics
	ClusterRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cluster_run_duration_seconds",
			Help:    "Duration of a full join, scale, cluster and score run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"algorithm"},
	)

	ClusterRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cluster_runs_total",
			Help: "Total number of clustering runs by outcome",
		},
		[]string{"algorithm", "outcome"},
	)

	ClusterRowsClustered = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cluster_rows_clustered",
			Help:    "Rows fed to the clustering algorithm per run",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
		[]string{"algorithm"},
	)

	ClusterCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cluster_last_cluster_count",
			Help: "Clusters found by the most recent run",
		},
		[]string{"algorithm"},
	)

	ClusterSilhouette = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cluster_last_silhouette_score",
			Help: "Silhouette score of the most recent run with a defined score",
		},
		[]string{"algorithm"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Export Metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Total number of generated downloads",
		},
		[]string{"format"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordClusterRun records the outcome of one clustering run. The score is
// only published when available.
func RecordClusterRun(algorithm string, duration time.Duration, rows, clusters int, score float64, scoreAvailable bool, err error) {
	ClusterRunDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	if err != nil {
		ClusterRunsTotal.WithLabelValues(algorithm, "error").Inc()
		return
	}
	ClusterRunsTotal.WithLabelValues(algorithm, "success").Inc()
	ClusterRowsClustered.WithLabelValues(algorithm).Observe(float64(rows))
	ClusterCount.WithLabelValues(algorithm).Set(float64(clusters))
	if scoreAvailable {
		ClusterSilhouette.WithLabelValues(algorithm).Set(score)
	}
}

// RecordExport counts a generated download.
func RecordExport(format string) {
	ExportsTotal.WithLabelValues(format).Inc()
}

// StatusLabel converts an HTTP status code to a label value.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}
