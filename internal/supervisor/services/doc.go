// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package services adapts server components to suture.Service.
//
//   - HTTPServerService runs an *http.Server and shuts it down gracefully
//     when its context ends
//   - DatasetPreloadService loads the dataset at startup, retrying under
//     supervisor backoff, and then exits for good
package services
