// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package algorithms

import (
	"context"

	"github.com/tomtom215/classmatch/internal/recommend"
)

// Models builds fresh model instances from a recommendation config.
// It is safe for concurrent use; it holds only the immutable config.
type Models struct {
	config *recommend.Config
	rules  *RuleEngine
}

// NewModels creates the model factory used by recommend.Engine.
func NewModels(cfg *recommend.Config) *Models {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	cfg = cfg.Clone()
	return &Models{
		config: cfg,
		rules:  NewRuleEngine(cfg.Rules),
	}
}

// Rules returns the shared rule engine. It is stateless.
func (m *Models) Rules() *RuleEngine {
	return m.rules
}

// WeightFitter returns a new weight regressor.
func (m *Models) WeightFitter() recommend.WeightFitter {
	return NewWeightRegressor(m.config.Regression)
}

// EligibilityFilter returns the filter for a strategy.
func (m *Models) EligibilityFilter(strategy recommend.Strategy) recommend.EligibilityFilter {
	if strategy == recommend.StrategyRules {
		return NewRuleFilter(m.rules)
	}
	return NewTreeFilter(m.config.Classifier, m.rules)
}

// Clusterer returns a new cluster engine.
func (m *Models) Clusterer() recommend.Clusterer {
	return NewClusterEngine(m.config.Cluster, m.config.EffectiveSeed())
}

// Explainer returns a new context explainer.
func (m *Models) Explainer() recommend.Explainer {
	return NewContextExplainer()
}

// Ensure all models implement their interfaces.
var (
	_ recommend.Models            = (*Models)(nil)
	_ recommend.WeightFitter      = (*WeightRegressor)(nil)
	_ recommend.EligibilityFilter = (*TreeFilter)(nil)
	_ recommend.EligibilityFilter = (*RuleFilter)(nil)
	_ recommend.Clusterer         = (*ClusterEngine)(nil)
	_ recommend.Explainer         = (*ContextExplainer)(nil)
)

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
