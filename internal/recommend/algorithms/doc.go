// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

// Package algorithms implements the models behind the recommendation engine.
//
// Every model is fitted per request on the current catalog snapshot. Nothing
// is persisted between requests, so a catalog reload takes effect on the next
// call without retraining.
//
// # Models
//
// Eligibility:
//   - RuleEngine: six hard compatibility rules (subject, familiarity,
//     devices, connectivity, modality, assessment)
//   - TreeFilter: CART decision tree trained on the rule labels, with
//     stratified cross-validation and a trust threshold
//   - RuleFilter: the rule engine without a model
//
// Weights:
//   - WeightRegressor: ordinary least squares on standardized
//     characteristics, solved with a Cholesky decomposition
//
// Grouping:
//   - ClusterEngine: seeded k-means++ with restarts, silhouette-based K
//     selection and archetype labels
//
// Context:
//   - AssociationScorer: five fixed association rules between questionnaire
//     answers and resource attributes
//   - ContextExplainer: per-dimension distances, association and similarity
//
// # Factory
//
// Models implements recommend.Models and hands the engine fresh instances
// configured from a recommend.Config:
//
//	models := algorithms.NewModels(cfg)
//	engine, err := recommend.NewEngine(cfg, models, catalog, logger)
//
// # Determinism
//
// All randomness comes from a math/rand source seeded with Config.Seed.
// Ties are broken by catalog order, feature index or cluster index, so equal
// inputs always produce equal outputs.
//
// # Thread Safety
//
// Models and RuleEngine hold only immutable configuration. Every other type is
// created per request and must not be shared across goroutines.
//
// # See Also
//
//   - internal/recommend: Engine, request/result types and interfaces
//   - internal/catalog: Resource catalog loading and snapshots
package algorithms
