// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/classmatch/internal/catalog"
	"github.com/tomtom215/classmatch/internal/recommend"
)

// Error codes returned in the APIError envelope.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeTimeout            = "TIMEOUT"
)

// ErrReloadThrottled is returned when manual reloads exceed the configured rate.
var ErrReloadThrottled = errors.New("catalog reload throttled")

// apiFailure is the HTTP rendering of an error.
type apiFailure struct {
	status  int
	code    string
	message string
	details map[string]interface{}
}

// classifyError maps engine and catalog errors to an HTTP status and error code.
func classifyError(err error) apiFailure {
	var verr *recommend.ValidationError
	switch {
	case errors.As(err, &verr):
		message := verr.Error()
		if len(verr.Fields) == 1 {
			message = verr.Fields[0].Message
		}
		return apiFailure{
			status:  http.StatusBadRequest,
			code:    ErrCodeValidation,
			message: message,
			details: map[string]interface{}{"fields": verr.Fields},
		}

	case errors.Is(err, recommend.ErrResourceNotFound):
		return apiFailure{
			status:  http.StatusNotFound,
			code:    ErrCodeNotFound,
			message: "Resource not found",
		}

	case errors.Is(err, catalog.ErrNotLoaded),
		errors.Is(err, recommend.ErrEmptyCatalog),
		errors.Is(err, recommend.ErrNoCatalog):
		return apiFailure{
			status:  http.StatusServiceUnavailable,
			code:    ErrCodeCatalogUnavailable,
			message: "Resource catalog is not available",
		}

	case errors.Is(err, context.DeadlineExceeded):
		return apiFailure{
			status:  http.StatusGatewayTimeout,
			code:    ErrCodeTimeout,
			message: "Request timed out",
		}

	default:
		return apiFailure{
			status:  http.StatusInternalServerError,
			code:    ErrCodeInternal,
			message: "Internal server error",
		}
	}
}
