// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto at
package initialization and exposed by the API at /metrics.

# Available Metrics

HTTP Metrics:
  - classmatch_api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - classmatch_api_request_duration_seconds: Request latency (histogram)
  - classmatch_api_active_requests: Active requests (gauge)
  - classmatch_api_rate_limit_hits_total: Rate limit rejections (counter)

Pipeline Metrics:
  - classmatch_recommend_requests_total: Pipeline runs (counter)
    Labels: strategy, outcome
  - classmatch_recommend_duration_seconds: Pipeline latency (histogram)
  - classmatch_recommend_eligible_resources: Eligible resources per run (histogram)
  - classmatch_classifier_agreement: Tree vs rule agreement of the last run (gauge)
  - classmatch_classifier_fallbacks_total: Runs that fell back to rule labels (counter)
  - classmatch_model_fit_errors_total: Degenerate fits by model (counter)
  - classmatch_cluster_silhouette: Silhouette of the last clustering (gauge)

Catalog Metrics:
  - classmatch_catalog_resources, classmatch_catalog_version (gauges)
  - classmatch_catalog_reloads_total: Loads by outcome (counter)
  - classmatch_catalog_load_duration_seconds (histogram)

Circuit Breaker Metrics:
  - classmatch_circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - classmatch_circuit_breaker_requests_total: Labels name, result
  - classmatch_circuit_breaker_consecutive_failures
  - classmatch_circuit_breaker_state_transitions_total

# Usage

	start := time.Now()
	result, err := engine.Recommend(ctx, req)
	metrics.RecordRecommendation("ml", "ranked", time.Since(start), result.Diagnostics.EligibleCount)
*/
package metrics
