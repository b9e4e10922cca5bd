// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package api serves clustering results over HTTP.
//
// Routes (all GET):
//
//	/api/v1/health/live        process is up
//	/api/v1/health/ready       dataset is loaded, result cache stats
//	/api/v1/countries          "All" followed by the sorted countries
//	/api/v1/clusters           full run: params, score, counts, summary, labels
//	/api/v1/clusters/summary   per-cluster mean pollutant values
//	/api/v1/clusters/preview   first rows of the filtered table
//	/api/v1/export/csv         filtered table with Cluster column
//	/api/v1/export/xlsx        same table as a workbook
//	/dashboard                 HTML page with every chart
//	/metrics                   Prometheus
//
// Clustering endpoints accept country, algorithm, k, eps and min_samples;
// preview also accepts limit. JSON responses use the APIResponse envelope.
package api
