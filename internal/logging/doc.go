// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

/*
Package logging provides zerolog-based structured logging for Classmatch.

Every component logs through one global zerolog logger configured at startup
from the logging section of the configuration. JSON is the production
format; console output is available for local development.

# Usage

	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})

	logging.Info().Str("addr", addr).Msg("HTTP server listening")

	logger := logging.WithComponent("catalog")
	logger.Warn().Err(err).Msg("Catalog reload failed")

	// In handlers: the request ID set by the middleware is attached.
	logging.Ctx(r.Context()).Info().Int("eligible", n).Msg("Recommendations served")

Always terminate an event with Msg or Send; an unterminated event is never
written.

# slog Bridge

SlogHandler adapts zerolog to log/slog for libraries that only accept a
*slog.Logger. The supervisor tree uses it through sutureslog.

# Levels

trace, debug, info (default), warn, error, fatal, panic and disabled.
Unknown names fall back to info; ValidLevel lets configuration reject them
up front.
*/
package logging
