// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ListResources handles GET /api/v1/resources.
// Returns the current catalog snapshot with its version.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snapshot, err := h.catalog.GetAll(r.Context())
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondSuccess(w, r, map[string]interface{}{
		"resources": snapshot.Resources,
		"count":     len(snapshot.Resources),
		"version":   snapshot.Version,
		"loaded_at": snapshot.LoadedAt,
	}, start)
}

// GetResource handles GET /api/v1/resources/{id}.
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	resource, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondSuccess(w, r, resource, start)
}
