// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package middleware provides HTTP middleware shared by the API router.
//
// All middleware has the func(http.Handler) http.Handler shape so it can be
// passed straight to chi's Use:
//
//   - RequestID: assigns or propagates X-Request-ID and seeds the logging
//     context with request and correlation IDs
//   - PrometheusMetrics: records request counts, latency and in-flight
//     requests, labelled by chi route pattern
//   - AccessLog: one structured log line per request
package middleware
