// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package models

import "time"

// HealthStatus is returned by GET /health.
//
// Status is "healthy" once a catalog is loaded and the last reload
// succeeded, "degraded" when a reload failed but a previous snapshot is
// still served, and "unavailable" before the first successful load.
type HealthStatus struct {
	Status           string     `json:"status"`
	Version          string     `json:"version"`
	Uptime           float64    `json:"uptime_seconds"`
	CatalogLoaded    bool       `json:"catalog_loaded"`
	CatalogVersion   int64      `json:"catalog_version"`
	CatalogResources int        `json:"catalog_resources"`
	CatalogSource    string     `json:"catalog_source"`
	LastReload       *time.Time `json:"last_reload,omitempty"`
	LastReloadError  string     `json:"last_reload_error,omitempty"`
}

// Health status values.
const (
	HealthHealthy     = "healthy"
	HealthDegraded    = "degraded"
	HealthUnavailable = "unavailable"
)
