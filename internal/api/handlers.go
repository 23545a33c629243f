// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/classmatch/internal/catalog"
	"github.com/tomtom215/classmatch/internal/recommend"
)

// Recommender runs the recommendation pipeline.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
	Diagnostics(ctx context.Context, profile recommend.TeacherProfile) (*recommend.DiagnosticsBundle, error)
	GetConfig() *recommend.Config
}

// CatalogStore serves and reloads the resource catalog.
type CatalogStore interface {
	recommend.CatalogProvider
	Reload(ctx context.Context) (*recommend.Catalog, error)
	Status() catalog.Status
}

// Ensure the concrete types satisfy the handler dependencies
var (
	_ Recommender  = (*recommend.Engine)(nil)
	_ CatalogStore = (*catalog.Repository)(nil)
)

// HandlerConfig tunes request handling.
type HandlerConfig struct {
	// Version is reported by /health.
	Version string

	// RequestTimeout bounds a single pipeline run.
	RequestTimeout time.Duration

	// MaxBodyBytes bounds POST bodies.
	MaxBodyBytes int64

	// ReloadInterval and ReloadBurst throttle manual catalog reloads.
	ReloadInterval time.Duration
	ReloadBurst    int
}

// DefaultHandlerConfig returns the defaults used when fields are zero.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		Version:        "dev",
		RequestTimeout: 10 * time.Second,
		MaxBodyBytes:   64 << 10,
		ReloadInterval: 30 * time.Second,
		ReloadBurst:    1,
	}
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: Response and request helpers
//   - handlers_health.go: Health endpoint
//   - handlers_resources.go: Catalog browsing endpoints
//   - handlers_recommend.go: Recommendation and diagnostics endpoints
//   - handlers_methodology.go: Static pipeline description
//   - handlers_catalog.go: Manual catalog reload
type Handler struct {
	engine        Recommender
	catalog       CatalogStore
	config        HandlerConfig
	reloadLimiter *rate.Limiter
	startTime     time.Time
}

// NewHandler creates a new API handler.
// Zero fields of cfg take their DefaultHandlerConfig values.
//
//nolint:gocritic // hugeParam: HandlerConfig is built once at startup
func NewHandler(engine Recommender, store CatalogStore, cfg HandlerConfig) *Handler {
	defaults := DefaultHandlerConfig()
	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.ReloadInterval <= 0 {
		cfg.ReloadInterval = defaults.ReloadInterval
	}
	if cfg.ReloadBurst <= 0 {
		cfg.ReloadBurst = defaults.ReloadBurst
	}

	return &Handler{
		engine:        engine,
		catalog:       store,
		config:        cfg,
		reloadLimiter: rate.NewLimiter(rate.Every(cfg.ReloadInterval), cfg.ReloadBurst),
		startTime:     time.Now(),
	}
}
