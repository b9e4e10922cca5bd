// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package main is the entry point for the Airscope server.
//
// Airscope clusters cities by their air pollution levels and serves the
// results as a JSON API, downloadable tables and an HTML dashboard.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml and environment (Koanf v2)
//  2. Logging: zerolog, bridged to slog for the supervisor
//  3. Dataset: CSV or DuckDB source behind a load-once cache
//  4. Result cache: in-memory TTL cache of clustering runs (optional)
//  5. HTTP server: chi router with CORS, rate limiting and metrics
//  6. Supervisor tree: dataset preload and HTTP server under suture
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (POLLUTION_CSV, CITIES_CSV, DATA_ENGINE, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Example Usage
//
//	export POLLUTION_CSV=data/global_air_pollution_dataset.csv
//	export CITIES_CSV=data/worldcities.csv
//	export DATA_ENGINE=duckdb
//	./airscope
//
// Then open http://localhost:8501/dashboard.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server stops
// accepting connections and waits for in-flight requests before exit.
package main
