// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/airscope/internal/api"
	"github.com/tomtom215/airscope/internal/cache"
	"github.com/tomtom215/airscope/internal/config"
	"github.com/tomtom215/airscope/internal/dataset"
	"github.com/tomtom215/airscope/internal/logging"
	"github.com/tomtom215/airscope/internal/metrics"
	"github.com/tomtom215/airscope/internal/pipeline"
	"github.com/tomtom215/airscope/internal/supervisor"
	"github.com/tomtom215/airscope/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("engine", cfg.Data.Engine).
		Str("pollution_path", cfg.Data.PollutionPath).
		Str("cities_path", cfg.Data.CitiesPath).
		Str("default_algorithm", cfg.Cluster.DefaultAlgorithm).
		Msg("Starting Airscope")

	source, err := dataset.NewSource(cfg.Data.Engine, cfg.Data.PollutionPath, cfg.Data.CitiesPath, schemaFromConfig(&cfg.Data.Columns))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create dataset source")
	}
	data := dataset.NewCache(source)

	var results *cache.Cache[*pipeline.Result]
	if cfg.Cache.Enabled {
		results = cache.New[*pipeline.Result](api.ResultCacheName, cfg.Cache.TTL)
		defer results.Stop()
		logging.Info().Dur("ttl", cfg.Cache.TTL).Msg("Result cache enabled")
	} else {
		logging.Info().Msg("Result cache disabled (RESULT_CACHE_ENABLED=false)")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" && cfg.Server.Environment == "production" {
			logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*) in production")
			break
		}
	}

	handler := api.NewHandler(data, results, cfg)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Data.Preload {
		tree.AddDataService(services.NewDatasetPreloadService(data))
		logging.Info().Msg("Dataset preload service added")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// schemaFromConfig maps the configured column names onto a dataset schema.
// Empty names keep the default.
func schemaFromConfig(c *config.ColumnsConfig) dataset.Schema {
	s := dataset.DefaultSchema()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.City, c.City)
	set(&s.Country, c.Country)
	set(&s.Pollutants[dataset.NO2], c.NO2)
	set(&s.Pollutants[dataset.Ozone], c.Ozone)
	set(&s.Pollutants[dataset.PM25], c.PM25)
	set(&s.Pollutants[dataset.CO], c.CO)
	set(&s.AQI, c.AQI)
	set(&s.Category, c.Category)
	set(&s.CoordCity, c.CoordCity)
	set(&s.CoordCountry, c.CoordCountry)
	set(&s.Lat, c.Lat)
	set(&s.Lng, c.Lng)
	return s
}
