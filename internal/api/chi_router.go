// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/classmatch/internal/middleware"
)

// compressionLevel is the gzip level for JSON responses.
const compressionLevel = 5

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler              *Handler
	chiMiddleware        *ChiMiddleware
	slowRequestThreshold time.Duration
}

// NewRouter creates a router. A nil mwConfig uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig, slowRequestThreshold time.Duration) *Router {
	return &Router{
		handler:              handler,
		chiMiddleware:        NewChiMiddleware(mwConfig),
		slowRequestThreshold: slowRequestThreshold,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(chiMiddleware(middleware.RequestID))                              // X-Request-ID and logging context
	r.Use(chimiddleware.RealIP)                                             // Extract real IP from X-Forwarded-For
	r.Use(chiMiddleware(middleware.AccessLog(router.slowRequestThreshold))) // One log line per request
	r.Use(chiMiddleware(middleware.PrometheusMetrics))                      // Request counters by route pattern
	r.Use(chimiddleware.Recoverer)                                          // Recover from panics
	r.Use(chimiddleware.Compress(compressionLevel, "application/json"))     // Gzip JSON responses
	r.Use(router.chiMiddleware.CORS())                                      // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Operational Endpoints
	// ========================
	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/resources", router.handler.ListResources)
		r.Get("/resources/{id}", router.handler.GetResource)

		r.Post("/recommendations", router.handler.Recommendations)
		r.Post("/recommendations/diagnostics", router.handler.RecommendationDiagnostics)

		r.Get("/methodology", router.handler.Methodology)

		r.Post("/catalog/reload", router.handler.ReloadCatalog)
	})

	return r
}
