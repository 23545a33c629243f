// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package api provides the HTTP interface of the recommendation service.

Routes are served by a chi router:

	GET  /health                               service and catalog status
	GET  /metrics                              Prometheus exposition
	GET  /api/v1/resources                     current catalog snapshot
	GET  /api/v1/resources/{id}                one resource
	POST /api/v1/recommendations               ranked recommendations for a questionnaire
	POST /api/v1/recommendations/diagnostics   per-model reports for a questionnaire
	GET  /api/v1/methodology                   pipeline stages and references
	POST /api/v1/catalog/reload                reload the catalog (throttled)

Global middleware, in order: request ID, real IP, access log, Prometheus
metrics, panic recovery, gzip and CORS. The /api/v1 group is rate limited
per client IP with go-chi/httprate.

Every response uses the models.APIResponse envelope. Engine and catalog
errors map to status codes in errors.go:

	*recommend.ValidationError        400 VALIDATION_ERROR
	malformed or oversized body       400 BAD_REQUEST
	recommend.ErrResourceNotFound     404 NOT_FOUND
	catalog not loaded or empty       503 CATALOG_UNAVAILABLE
	context deadline                  504 TIMEOUT
	anything else                     500 INTERNAL_ERROR
*/
package api
