// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package main is the entry point for the Classmatch server.

Classmatch recommends educational technology resources for a teacher's
classroom context. It loads a resource catalog, runs the eligibility rules
and the selected scoring strategy, and serves the ranked result over a JSON
HTTP API.

# Startup

 1. Configuration: defaults, optional config.yaml, environment (koanf v2)
 2. Logging: zerolog, JSON or console
 3. Catalog: initial load from a file or URL
 4. Engine: rules, regression, classifier and cluster models
 5. Supervisor tree: HTTP server and scheduled catalog reloads (suture v4)

A failed initial catalog load is not fatal. The API answers
CATALOG_UNAVAILABLE until a reload succeeds.

# Supervisor Tree

	classmatch
	├── catalog-layer
	│   └── catalog-reload (cron schedule, CATALOG_RELOAD_SCHEDULE)
	└── api-layer
	    └── http-server

# Configuration

Common environment variables:

	HTTP_PORT                  listen port (default 8080)
	LOG_LEVEL                  trace, debug, info, warn or error
	LOG_FORMAT                 json or console
	CATALOG_PATH               local catalog file (default data/catalog.json)
	CATALOG_URL                remote catalog, takes precedence over CATALOG_PATH
	CATALOG_RELOAD_SCHEDULE    cron expression, empty disables (default @every 15m)
	RECOMMEND_STRATEGY         ml (default) or rules
	CORS_ORIGINS               comma-separated allowed origins
	DISABLE_RATE_LIMIT         true disables per-IP rate limiting

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests within HTTP_SHUTDOWN_TIMEOUT and the reload scheduler waits for a
running reload to finish.
*/
package main
