// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/classmatch/internal/logging"
	"github.com/tomtom215/classmatch/internal/recommend"
)

// Recommendations handles POST /api/v1/recommendations.
// The body is a RecommendationRequest; the response data is a recommend.Result.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body := newRecommendationRequest()
	if err := decodeJSONBody(w, r, h.config.MaxBodyBytes, &body); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	result, err := h.engine.Recommend(ctx, body.EngineRequest(logging.RequestIDFromContext(ctx)))
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	logging.Ctx(ctx).Info().
		Str("strategy", string(result.Diagnostics.Strategy)).
		Str("subject", sanitizeLogValue(body.Subject)).
		Int("eligible", result.Diagnostics.EligibleCount).
		Int("returned", result.Diagnostics.ReturnedCount).
		Msg("Recommendations served")

	respondSuccess(w, r, result, start)
}

// RecommendationDiagnostics handles POST /api/v1/recommendations/diagnostics.
// The body is a TeacherProfile; the response data is a recommend.DiagnosticsBundle
// holding each model's report.
func (h *Handler) RecommendationDiagnostics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	profile := recommend.DefaultTeacherProfile()
	if err := decodeJSONBody(w, r, h.config.MaxBodyBytes, &profile); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	bundle, err := h.engine.Diagnostics(ctx, profile)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondSuccess(w, r, bundle, start)
}
