// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package config loads Airscope configuration from built-in defaults, an
// optional YAML file and environment variables, in increasing priority.
package config

import "time"

// Config holds all application configuration
type Config struct {
	Data     DataConfig     `koanf:"data"`
	Cluster  ClusterConfig  `koanf:"cluster"`
	Cache    CacheConfig    `koanf:"cache"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DataConfig locates the source tables and selects the engine that reads them.
type DataConfig struct {
	PollutionPath string        `koanf:"pollution_path"`
	CitiesPath    string        `koanf:"cities_path"`
	Engine        string        `koanf:"engine"` // csv or duckdb
	Preload       bool          `koanf:"preload"`
	PreviewLimit  int           `koanf:"preview_limit"`
	Columns       ColumnsConfig `koanf:"columns"`
}

// ColumnsConfig names the columns read from the two tables.
type ColumnsConfig struct {
	City     string `koanf:"city"`
	Country  string `koanf:"country"`
	NO2      string `koanf:"no2"`
	Ozone    string `koanf:"ozone"`
	PM25     string `koanf:"pm25"`
	CO       string `koanf:"co"`
	AQI      string `koanf:"aqi"`
	Category string `koanf:"category"`

	CoordCity    string `koanf:"coord_city"`
	CoordCountry string `koanf:"coord_country"`
	Lat          string `koanf:"lat"`
	Lng          string `koanf:"lng"`
}

// ClusterConfig holds algorithm defaults applied when a request omits them.
type ClusterConfig struct {
	DefaultAlgorithm  string        `koanf:"default_algorithm"`
	DefaultK          int           `koanf:"default_k"`
	DefaultEps        float64       `koanf:"default_eps"`
	DefaultMinSamples int           `koanf:"default_min_samples"`
	KMeansSeed        int64         `koanf:"kmeans_seed"`
	KMeansNInit       int           `koanf:"kmeans_n_init"`
	KMeansMaxIter     int           `koanf:"kmeans_max_iter"`
	RunTimeout        time.Duration `koanf:"run_timeout"`
}

// CacheConfig controls the in-memory result cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// SecurityConfig holds rate limiting and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
