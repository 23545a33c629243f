// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

// Package recommend ranks educational technology resources for a teacher
// and class profile.
//
// # Architecture
//
// The engine runs a fixed pipeline over an immutable catalog snapshot:
//
//   - Weights: a regression over the catalog derives characteristic weights
//   - Eligibility: a decision tree trained on rule labels filters resources
//   - Clustering: k-means groups eligible resources into named archetypes
//   - Scoring: a weighted characteristic sum, or a blend with association
//     and similarity for the rules strategy
//
// Models live in the algorithms subpackage and are created per request
// through the Models factory. The engine itself holds only configuration and
// counters.
//
// # Design Principles
//
//   - Deterministic: Same profile and catalog produce identical results (seeded k-means)
//   - Degrading: Degenerate fits fall back to defaults and say so in diagnostics
//   - Observable: Metrics exposed for monitoring
//   - Traceable: Request IDs appear in every log line of a run
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, algorithms.NewModels(cfg), repo, logger)
//
//	result, err := engine.Recommend(ctx, recommend.Request{
//	    Profile: profile,
//	    TopN:    10,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. A request reads one catalog
// snapshot and never observes a partial reload.
package recommend
