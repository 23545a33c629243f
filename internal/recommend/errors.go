// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/classmatch/internal/validation"
)

// Sentinel errors.
var (
	// ErrEmptyCatalog indicates the catalog snapshot holds no resources.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrNoCatalog indicates the engine has no catalog provider.
	ErrNoCatalog = errors.New("catalog provider not set")

	// ErrResourceNotFound indicates no resource has the requested id.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrTooFewSamples indicates a model received fewer rows than it needs.
	ErrTooFewSamples = errors.New("too few samples")

	// ErrConstantColumn indicates a predictor with zero variance.
	ErrConstantColumn = errors.New("constant column")

	// ErrRankDeficient indicates a singular or ill-conditioned design matrix.
	ErrRankDeficient = errors.New("rank-deficient design matrix")

	// ErrSingleClass indicates every training label is the same.
	ErrSingleClass = errors.New("single label class")

	// ErrNonFinite indicates a fit produced NaN or Inf.
	ErrNonFinite = errors.New("non-finite model output")
)

// FieldError is one invalid field of a profile or resource.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing input fields.
// It is surfaced to the caller and never retried.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// newValidationError converts validator output into a ValidationError.
func newValidationError(verr *validation.RequestValidationError) *ValidationError {
	errs := verr.Errors()
	fields := make([]FieldError, len(errs))
	for i := range errs {
		fields[i] = FieldError{
			Field:   errs[i].Field(),
			Tag:     errs[i].Tag(),
			Message: errs[i].Error(),
		}
	}
	return &ValidationError{Fields: fields}
}

// ModelFitError reports degenerate statistics encountered while fitting a model.
// Err is one of the sentinel errors above, so callers can match the cause with errors.Is.
type ModelFitError struct {
	Model  string
	Reason string
	Err    error
}

// NewModelFitError builds a ModelFitError.
func NewModelFitError(model string, err error, format string, args ...interface{}) *ModelFitError {
	return &ModelFitError{
		Model:  model,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// Error implements the error interface.
func (e *ModelFitError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("fit %s: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("fit %s: %v: %s", e.Model, e.Err, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ModelFitError) Unwrap() error {
	return e.Err
}

// IsModelFitError reports whether err wraps a ModelFitError.
func IsModelFitError(err error) bool {
	var mfe *ModelFitError
	return errors.As(err, &mfe)
}
