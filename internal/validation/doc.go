// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

// Package validation provides struct validation using go-playground/validator v10.
//
// The package keeps one thread-safe validator instance (struct info is cached
// after the first use) and translates failures into messages that the API
// layer returns verbatim under the VALIDATION_ERROR code.
//
// # Custom Tags
//
//   - probability: float field must lie in [0, 1]. Used for questionnaire
//     answers and resource characteristics.
//
// Field names in errors are the JSON keys, so a client that sent
// "techFamiliarity": 1.4 gets back "techFamiliarity must be between 0 and 1".
//
// # Usage
//
//	type TeacherProfile struct {
//	    Subject         string  `json:"subject" validate:"required"`
//	    TechFamiliarity float64 `json:"techFamiliarity" validate:"probability"`
//	}
//
//	if verr := validation.ValidateStruct(&profile); verr != nil {
//	    // respond 400 with verr.Error() and verr.Errors()
//	}
package validation
