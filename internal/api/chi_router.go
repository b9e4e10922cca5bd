// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/airscope/internal/middleware"
)

// Router wires the handler into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi builds the HTTP handler with every route.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(APISecurityHeaders())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom("health", RateLimitHealth, time.Minute))
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("api"))
		r.Use(middleware.PrometheusMetrics)

		r.Get("/countries", router.handler.Countries)
		r.Route("/clusters", func(r chi.Router) {
			r.Get("/", router.handler.Clusters)
			r.Get("/summary", router.handler.ClusterSummary)
			r.Get("/preview", router.handler.ClusterPreview)
		})
		r.Route("/export", func(r chi.Router) {
			r.Get("/csv", router.handler.ExportCSV)
			r.Get("/xlsx", router.handler.ExportXLSX)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("dashboard"))
		r.Use(middleware.PrometheusMetrics)
		r.Get("/dashboard", router.handler.Dashboard)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
