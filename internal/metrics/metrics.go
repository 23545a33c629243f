// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation pipeline outcomes and model quality
// - Catalog loading and reloads
// - Circuit breakers guarding remote catalog sources

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classmatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classmatch_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}, // Pipeline runs are in-memory
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classmatch_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classmatch_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Pipeline Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classmatch_recommend_requests_total",
			Help: "Total number of recommendation pipeline runs",
		},
		[]string{"strategy", "outcome"}, // outcome: "ranked", "empty", "invalid", "error"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "classmatch_recommend_duration_seconds",
			Help:    "Duration of recommendation pipeline runs in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"strategy"},
	)

	RecommendEligibleResources = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classmatch_recommend_eligible_resources",
			Help:    "Number of eligible resources per pipeline run",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		},
	)

	ClassifierAgreement = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classmatch_classifier_agreement",
			Help: "Train accuracy of the last eligibility tree against rule labels",
		},
	)

	ClassifierFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classmatch_classifier_fallbacks_total",
			Help: "Total number of runs where tree predictions were replaced by rule labels",
		},
	)

	ModelFitErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classmatch_model_fit_errors_total",
			Help: "Total number of degenerate model fits handled by fallback",
		},
		[]string{"model"}, // "regression", "classifier", "cluster"
	)

	ClusterSilhouette = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classmatch_cluster_silhouette",
			Help: "Silhouette score of the last clustering",
		},
	)

	// Catalog Metrics
	CatalogResources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classmatch_catalog_resources",
			Help: "Number of resources in the active catalog snapshot",
		},
	)

	CatalogVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classmatch_catalog_version",
			Help: "Version of the active catalog snapshot (increments on reload)",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classmatch_catalog_reloads_total",
			Help: "Total number of catalog load attempts",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	CatalogLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classmatch_catalog_load_duration_seconds",
			Help:    "Duration of catalog loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "classmatch_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classmatch_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "classmatch_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classmatch_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one pipeline run.
func RecordRecommendation(strategy, outcome string, duration time.Duration, eligible int) {
	RecommendRequests.WithLabelValues(strategy, outcome).Inc()
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if outcome == "ranked" || outcome == "empty" {
		RecommendEligibleResources.Observe(float64(eligible))
	}
}

// RecordClassifier records the quality of an eligibility tree fit.
func RecordClassifier(agreement float64, fellBack bool) {
	ClassifierAgreement.Set(agreement)
	if fellBack {
		ClassifierFallbacks.Inc()
	}
}

// RecordModelFitError records a degenerate fit for the named model.
func RecordModelFitError(model string) {
	ModelFitErrors.WithLabelValues(model).Inc()
}

// RecordCatalogLoad records a catalog load attempt.
// On success the resource count and version gauges are updated.
func RecordCatalogLoad(duration time.Duration, resources int, version int64, err error) {
	CatalogLoadDuration.Observe(duration.Seconds())
	if err != nil {
		CatalogReloads.WithLabelValues("failure").Inc()
		return
	}
	CatalogReloads.WithLabelValues("success").Inc()
	CatalogResources.Set(float64(resources))
	CatalogVersion.Set(float64(version))
}
