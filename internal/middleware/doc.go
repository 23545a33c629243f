// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package middleware provides HTTP middleware components for the API server.

Key Components:

  - RequestID: UUID-based request tracking, propagated through the logging context
  - PrometheusMetrics: request counters and latency histograms labeled by chi route pattern
  - AccessLog: one structured log line per request, with slow request warnings

All middleware is written as func(http.HandlerFunc) http.HandlerFunc and is
adapted to chi by the api package:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.AccessLog(time.Second)))

Route patterns ("/api/v1/resources/{id}") are read from the chi route
context after the request is served, so metric label cardinality stays
bounded by the number of routes. Requests outside any route are labeled
"unmatched".

Access logs go through logging.Ctx, so every line carries the request_id
and correlation_id set by RequestID.

See Also:

  - internal/api: router and handlers wrapped by these middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
