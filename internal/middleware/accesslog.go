// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/classmatch/internal/logging"
)

// DefaultSlowRequestThreshold is the latency above which a request is logged
// at warn level.
const DefaultSlowRequestThreshold = time.Second

// AccessLog logs one line per request through the request's context logger.
// Server errors log at error level and requests slower than slowThreshold
// log at warn level. Everything else logs at debug level.
func AccessLog(slowThreshold time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := newStatusRecorder(w)

			next(wrapper, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())

			var event *zerolog.Event
			switch {
			case wrapper.statusCode >= http.StatusInternalServerError:
				event = logger.Error()
			case duration > slowThreshold:
				event = logger.Warn().Dur("threshold", slowThreshold)
			default:
				event = logger.Debug()
			}

			msg := "Request completed"
			if duration > slowThreshold {
				msg = "Slow request detected"
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", wrapper.statusCode).
				Int("bytes", wrapper.bytes).
				Int64("duration_ms", duration.Milliseconds()).
				Msg(msg)
		}
	}
}
