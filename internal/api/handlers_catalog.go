// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/classmatch/internal/logging"
	"github.com/tomtom215/classmatch/internal/models"
)

// ReloadCatalog handles POST /api/v1/catalog/reload.
//
// Manual reloads share a token bucket; a request arriving with no token
// left gets 429 with a Retry-After header. A failed reload keeps the
// previous snapshot and answers 503.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	reservation := h.reloadLimiter.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
		respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimited, "Catalog reload throttled, retry later", ErrReloadThrottled)
		return
	}

	previous := h.catalog.Status().Version

	snapshot, err := h.catalog.Reload(r.Context())
	if err != nil {
		status := h.catalog.Status()
		respondErrorDetails(w, r, http.StatusServiceUnavailable, ErrCodeCatalogUnavailable, "Catalog reload failed", map[string]interface{}{
			"serving_version": status.Version,
		}, err)
		return
	}

	result := models.ReloadResult{
		Version:   snapshot.Version,
		Changed:   snapshot.Version != previous,
		Resources: len(snapshot.Resources),
		Source:    snapshot.Source,
		LoadedAt:  snapshot.LoadedAt,
	}

	logging.Ctx(r.Context()).Info().
		Int64("version", result.Version).
		Bool("changed", result.Changed).
		Msg("Catalog reloaded on request")

	respondSuccess(w, r, result, start)
}
