// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package recommend

import (
	"fmt"
	"math"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Strategy is the default strategy for requests that do not set one.
	// Default: "ml".
	Strategy Strategy `json:"strategy"`

	// Limits contains result size limits.
	Limits LimitsConfig `json:"limits"`

	// Rules contains eligibility rule thresholds.
	Rules RulesConfig `json:"rules"`

	// Regression contains parameters for the weight regressor.
	Regression RegressionConfig `json:"regression"`

	// Classifier contains parameters for the eligibility decision tree.
	Classifier ClassifierConfig `json:"classifier"`

	// Cluster contains parameters for k-means clustering.
	Cluster ClusterConfig `json:"cluster"`

	// Blend weights the components of a rule-strategy score.
	Blend BlendConfig `json:"blend"`

	// Seed is the random seed for deterministic clustering.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// LimitsConfig contains result size limits.
type LimitsConfig struct {
	// DefaultTopN is the number of recommendations returned when a request sets none.
	// Default: 10.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps the requested number of recommendations.
	// Default: 100.
	MaxTopN int `json:"max_top_n"`
}

// RulesConfig contains eligibility rule thresholds.
type RulesConfig struct {
	// LowFamiliarity is the tech familiarity below which easy tools are required.
	// Default: 0.5.
	LowFamiliarity float64 `json:"low_familiarity"`

	// MinEaseOfUse is the ease of use required for low-familiarity teachers.
	// Default: 0.7.
	MinEaseOfUse float64 `json:"min_ease_of_use"`

	// OfflineConnectivity is the connectivity below which offline support is required.
	// Default: 0.4.
	OfflineConnectivity float64 `json:"offline_connectivity"`
}

// RegressionConfig contains parameters for the weight regressor.
type RegressionConfig struct {
	// Target is the characteristic predicted by the regression.
	// Default: "pedagogical_adaptability".
	Target string `json:"target"`

	// DefaultWeights are used by the rule strategy and whenever the regression
	// cannot be fitted. Normalized at runtime.
	// Default: 0.20/0.25/0.20/0.15/0.20.
	DefaultWeights Characteristics `json:"default_weights"`

	// MaxCondition is the largest accepted ratio between the biggest and
	// smallest Cholesky pivot of the Gram matrix.
	// Default: 1e10.
	MaxCondition float64 `json:"max_condition"`
}

// ClassifierConfig contains parameters for the eligibility decision tree.
type ClassifierConfig struct {
	// MaxDepth limits tree depth.
	// Default: 5.
	MaxDepth int `json:"max_depth"`

	// MinSamplesSplit is the minimum number of samples to split a node.
	// Default: 2. The tree is trained and evaluated on the same rows and is
	// meant to reproduce the rule labels, so the split and leaf minimums are
	// left at their loosest. Raising them trades train agreement (and with
	// TrustThreshold 1.0, more rule fallbacks) for smaller trees.
	MinSamplesSplit int `json:"min_samples_split"`

	// MinSamplesLeaf is the minimum number of samples in each child.
	// Default: 1.
	MinSamplesLeaf int `json:"min_samples_leaf"`

	// ClassBalanced weights samples inversely to class frequency.
	// Default: true.
	ClassBalanced bool `json:"class_balanced"`

	// CVFolds is the maximum number of cross-validation folds.
	// The effective count is min(CVFolds, samples).
	// Default: 5.
	CVFolds int `json:"cv_folds"`

	// TrustThreshold is the minimum agreement between tree and rules for the
	// tree's predictions to be used. Below it the rule labels are used and
	// the report records the fallback.
	// Default: 1.0.
	TrustThreshold float64 `json:"trust_threshold"`
}

// ClusterConfig contains parameters for k-means clustering.
type ClusterConfig struct {
	// K fixes the number of clusters. Zero selects K by silhouette.
	// Default: 3.
	K int `json:"k"`

	// MinK is the smallest K tried during selection.
	// Default: 2.
	MinK int `json:"min_k"`

	// MaxK is the largest K tried during selection.
	// Default: 8.
	MaxK int `json:"max_k"`

	// NInit is the number of seeded restarts; the lowest inertia wins.
	// Default: 10.
	NInit int `json:"n_init"`

	// MaxIter is the iteration cap per restart.
	// Default: 300.
	MaxIter int `json:"max_iter"`

	// Tolerance stops iteration when total centroid movement falls below it.
	// Default: 1e-4.
	Tolerance float64 `json:"tolerance"`

	// ExtraMetrics enables Davies-Bouldin and Calinski-Harabasz scores.
	// Default: true.
	ExtraMetrics bool `json:"extra_metrics"`
}

// BlendConfig weights the components of a rule-strategy score.
type BlendConfig struct {
	// Base weights the fixed-weight characteristic score.
	// Default: 0.30.
	Base float64 `json:"base"`

	// Association weights the contextual association score.
	// Default: 0.35.
	Association float64 `json:"association"`

	// Similarity weights the profile similarity score.
	// Default: 0.35.
	Similarity float64 `json:"similarity"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Strategy: StrategyML,
		Limits: LimitsConfig{
			DefaultTopN: 10,
			MaxTopN:     100,
		},
		Rules: RulesConfig{
			LowFamiliarity:      0.5,
			MinEaseOfUse:        0.7,
			OfflineConnectivity: 0.4,
		},
		Regression: RegressionConfig{
			Target: "pedagogical_adaptability",
			DefaultWeights: Characteristics{
				EaseOfUse:                  0.20,
				EngagementPotential:        0.25,
				PedagogicalAdaptability:    0.20,
				InfrastructureRequirements: 0.15,
				CostAccessibility:          0.20,
			},
			MaxCondition: 1e10,
		},
		Classifier: ClassifierConfig{
			MaxDepth:        5,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			ClassBalanced:   true,
			CVFolds:         5,
			TrustThreshold:  1.0,
		},
		Cluster: ClusterConfig{
			K:            3,
			MinK:         2,
			MaxK:         8,
			NInit:        10,
			MaxIter:      300,
			Tolerance:    1e-4,
			ExtraMetrics: true,
		},
		Blend: BlendConfig{
			Base:        0.30,
			Association: 0.35,
			Similarity:  0.35,
		},
		Seed: 42, // Default seed for determinism
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if !c.Strategy.Valid() {
		return fmt.Errorf("strategy must be %q or %q, got %q", StrategyML, StrategyRules, c.Strategy)
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}

	for name, v := range map[string]float64{
		"rules.low_familiarity":      c.Rules.LowFamiliarity,
		"rules.min_ease_of_use":      c.Rules.MinEaseOfUse,
		"rules.offline_connectivity": c.Rules.OfflineConnectivity,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %f", name, v)
		}
	}

	if _, ok := CharacteristicIndex(c.Regression.Target); !ok {
		return fmt.Errorf("regression.target must be a characteristic name, got %q", c.Regression.Target)
	}
	for i, w := range c.Regression.DefaultWeights.Vector() {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("regression.default_weights.%s must be non-negative, got %f", CharacteristicNames[i], w)
		}
	}
	if c.Regression.DefaultWeights.Sum() == 0 {
		return fmt.Errorf("regression.default_weights must not all be zero")
	}
	if c.Regression.MaxCondition <= 1 {
		return fmt.Errorf("regression.max_condition must be > 1, got %g", c.Regression.MaxCondition)
	}

	if c.Classifier.MaxDepth < 1 {
		return fmt.Errorf("classifier.max_depth must be positive, got %d", c.Classifier.MaxDepth)
	}
	if c.Classifier.MinSamplesSplit < 2 {
		return fmt.Errorf("classifier.min_samples_split must be >= 2, got %d", c.Classifier.MinSamplesSplit)
	}
	if c.Classifier.MinSamplesLeaf < 1 {
		return fmt.Errorf("classifier.min_samples_leaf must be positive, got %d", c.Classifier.MinSamplesLeaf)
	}
	if c.Classifier.CVFolds < 2 {
		return fmt.Errorf("classifier.cv_folds must be >= 2, got %d", c.Classifier.CVFolds)
	}
	if c.Classifier.TrustThreshold < 0 || c.Classifier.TrustThreshold > 1 {
		return fmt.Errorf("classifier.trust_threshold must be in [0, 1], got %f", c.Classifier.TrustThreshold)
	}

	if c.Cluster.K < 0 {
		return fmt.Errorf("cluster.k must be non-negative, got %d", c.Cluster.K)
	}
	if c.Cluster.MinK < 2 {
		return fmt.Errorf("cluster.min_k must be >= 2, got %d", c.Cluster.MinK)
	}
	if c.Cluster.MaxK < c.Cluster.MinK {
		return fmt.Errorf("cluster.max_k must be >= cluster.min_k, got %d < %d", c.Cluster.MaxK, c.Cluster.MinK)
	}
	if c.Cluster.NInit < 1 {
		return fmt.Errorf("cluster.n_init must be positive, got %d", c.Cluster.NInit)
	}
	if c.Cluster.MaxIter < 1 {
		return fmt.Errorf("cluster.max_iter must be positive, got %d", c.Cluster.MaxIter)
	}
	if c.Cluster.Tolerance < 0 {
		return fmt.Errorf("cluster.tolerance must be non-negative, got %g", c.Cluster.Tolerance)
	}

	if c.Blend.Base < 0 || c.Blend.Association < 0 || c.Blend.Similarity < 0 {
		return fmt.Errorf("blend weights must be non-negative")
	}
	if c.Blend.Base+c.Blend.Association+c.Blend.Similarity == 0 {
		return fmt.Errorf("blend weights must not all be zero")
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types (no pointers/slices)
	clone := *c
	return &clone
}

// EffectiveSeed returns the configured seed, or the default when unset.
func (c *Config) EffectiveSeed() int64 {
	if c.Seed == 0 {
		return 42
	}
	return c.Seed
}
