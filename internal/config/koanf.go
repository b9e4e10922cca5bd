// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/airscope/config.yaml",
	"/etc/airscope/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			PollutionPath: "global_air_pollution_dataset.csv",
			CitiesPath:    "worldcities.csv",
			Engine:        "csv",
			Preload:       true,
			PreviewLimit:  100,
			Columns: ColumnsConfig{
				City:         "City",
				Country:      "Country",
				NO2:          "NO2 AQI Value",
				Ozone:        "Ozone AQI Value",
				PM25:         "PM2.5 AQI Value",
				CO:           "CO AQI Value",
				AQI:          "AQI Value",
				Category:     "AQI Category",
				CoordCity:    "city",
				CoordCountry: "country",
				Lat:          "lat",
				Lng:          "lng",
			},
		},
		Cluster: ClusterConfig{
			DefaultAlgorithm:  "kmeans",
			DefaultK:          4,
			DefaultEps:        1.2,
			DefaultMinSamples: 5,
			KMeansSeed:        42,
			KMeansNInit:       10,
			KMeansMaxIter:     300,
			RunTimeout:        25 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Server: ServerConfig{
			Port:        8501,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// POLLUTION_CSV -> data.pollution_path, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Data mappings
	"pollution_csv":  "data.pollution_path",
	"cities_csv":     "data.cities_path",
	"data_engine":    "data.engine",
	"preload_data":   "data.preload",
	"preview_limit":  "data.preview_limit",
	"column_city":    "data.columns.city",
	"column_country": "data.columns.country",
	"column_no2":     "data.columns.no2",
	"column_ozone":   "data.columns.ozone",
	"column_pm25":    "data.columns.pm25",
	"column_co":      "data.columns.co",
	"column_lat":     "data.columns.lat",
	"column_lng":     "data.columns.lng",

	// Clustering mappings
	"default_algorithm":   "cluster.default_algorithm",
	"default_k":           "cluster.default_k",
	"default_eps":         "cluster.default_eps",
	"default_min_samples": "cluster.default_min_samples",
	"kmeans_seed":         "cluster.kmeans_seed",
	"kmeans_n_init":       "cluster.kmeans_n_init",
	"kmeans_max_iter":     "cluster.kmeans_max_iter",
	"cluster_run_timeout": "cluster.run_timeout",

	// Cache mappings
	"result_cache_enabled": "cache.enabled",
	"result_cache_ttl":     "cache.ttl",

	// Server mappings
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its config path.
// Unmapped variables return "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
