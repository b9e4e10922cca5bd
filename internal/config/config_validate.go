// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/airscope/internal/cluster"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateCluster(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateData() error {
	if strings.TrimSpace(c.Data.PollutionPath) == "" {
		return fmt.Errorf("POLLUTION_CSV must not be empty")
	}
	if strings.TrimSpace(c.Data.CitiesPath) == "" {
		return fmt.Errorf("CITIES_CSV must not be empty")
	}
	switch c.Data.Engine {
	case "csv", "duckdb":
	default:
		return fmt.Errorf("DATA_ENGINE must be 'csv' or 'duckdb', got: %s", c.Data.Engine)
	}
	if c.Data.PreviewLimit < 1 || c.Data.PreviewLimit > 1000 {
		return fmt.Errorf("PREVIEW_LIMIT must be between 1 and 1000, got: %d", c.Data.PreviewLimit)
	}
	cols := c.Data.Columns
	for name, v := range map[string]string{
		"city": cols.City, "country": cols.Country,
		"no2": cols.NO2, "ozone": cols.Ozone, "pm25": cols.PM25, "co": cols.CO,
		"coord_city": cols.CoordCity, "coord_country": cols.CoordCountry,
		"lat": cols.Lat, "lng": cols.Lng,
	} {
		if v == "" {
			return fmt.Errorf("data.columns.%s must not be empty", name)
		}
	}
	return nil
}

// validateCluster checks the request defaults against the ranges the API accepts.
func (c *Config) validateCluster() error {
	cl := c.Cluster
	if _, err := cluster.ParseKind(cl.DefaultAlgorithm); err != nil {
		return fmt.Errorf("DEFAULT_ALGORITHM must be kmeans, dbscan or hierarchical, got: %s", cl.DefaultAlgorithm)
	}
	if cl.DefaultK < cluster.MinK || cl.DefaultK > cluster.MaxK {
		return fmt.Errorf("DEFAULT_K must be between %d and %d, got: %d", cluster.MinK, cluster.MaxK, cl.DefaultK)
	}
	if cl.DefaultEps < cluster.MinEps || cl.DefaultEps > cluster.MaxEps {
		return fmt.Errorf("DEFAULT_EPS must be between %v and %v, got: %v", cluster.MinEps, cluster.MaxEps, cl.DefaultEps)
	}
	if cl.DefaultMinSamples < cluster.MinMinSamples || cl.DefaultMinSamples > cluster.MaxMinSamples {
		return fmt.Errorf("DEFAULT_MIN_SAMPLES must be between %d and %d, got: %d",
			cluster.MinMinSamples, cluster.MaxMinSamples, cl.DefaultMinSamples)
	}
	if cl.KMeansNInit < 1 {
		return fmt.Errorf("KMEANS_N_INIT must be at least 1, got: %d", cl.KMeansNInit)
	}
	if cl.KMeansMaxIter < 1 {
		return fmt.Errorf("KMEANS_MAX_ITER must be at least 1, got: %d", cl.KMeansMaxIter)
	}
	if cl.RunTimeout <= 0 {
		return fmt.Errorf("CLUSTER_RUN_TIMEOUT must be positive, got: %v", cl.RunTimeout)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("RESULT_CACHE_TTL must be positive when the cache is enabled, got: %v", c.Cache.TTL)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got: %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got: %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got: %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got: %s", c.Logging.Format)
	}
	return nil
}
