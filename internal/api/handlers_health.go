// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/classmatch/internal/models"
)

// Health handles GET /health.
//
// Always answers 200 while the process serves requests; the status field
// tells whether the catalog is usable. See models.HealthStatus.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := h.catalog.Status()

	health := models.HealthStatus{
		Status:           models.HealthHealthy,
		Version:          h.config.Version,
		Uptime:           time.Since(h.startTime).Seconds(),
		CatalogLoaded:    status.Version > 0,
		CatalogVersion:   status.Version,
		CatalogResources: status.Resources,
		CatalogSource:    status.Source,
		LastReloadError:  status.LastError,
	}
	if !status.LastSuccess.IsZero() {
		lastReload := status.LastSuccess
		health.LastReload = &lastReload
	}

	switch {
	case !health.CatalogLoaded:
		health.Status = models.HealthUnavailable
	case status.LastError != "":
		health.Status = models.HealthDegraded
	}

	respondSuccess(w, r, health, start)
}
