// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package models defines the HTTP wire types shared by the API handlers.

Domain types (profiles, resources, results) live in internal/recommend and
are embedded in the Data field of the response envelope as-is.

Key Components:

  - APIResponse: Standardized API response wrapper
  - APIError: Error details (code, message, details)
  - Metadata: Response metadata (timestamp, query time, request ID)
  - HealthStatus: Service and catalog health
  - ReloadResult: Outcome of a manual catalog reload
  - Methodology: Static description of the pipeline stages

Every endpoint responds with an APIResponse:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
	{"status": "error", "data": null, "error": {"code": "...", "message": "..."}, "metadata": {...}}
*/
package models
