// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package recommend

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("default config is valid", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("default weights sum to 1", func(t *testing.T) {
		if sum := cfg.Regression.DefaultWeights.Sum(); math.Abs(sum-1) > 1e-9 {
			t.Errorf("DefaultWeights sum = %f, want 1.0", sum)
		}
	})

	t.Run("blend weights sum to 1", func(t *testing.T) {
		sum := cfg.Blend.Base + cfg.Blend.Association + cfg.Blend.Similarity
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Blend sum = %f, want 1.0", sum)
		}
	})

	t.Run("rule thresholds", func(t *testing.T) {
		if cfg.Rules.LowFamiliarity != 0.5 || cfg.Rules.MinEaseOfUse != 0.7 || cfg.Rules.OfflineConnectivity != 0.4 {
			t.Errorf("Rules = %+v, want 0.5/0.7/0.4", cfg.Rules)
		}
	})

	t.Run("limits", func(t *testing.T) {
		if cfg.Limits.DefaultTopN != 10 {
			t.Errorf("Limits.DefaultTopN = %d, want 10", cfg.Limits.DefaultTopN)
		}
		if cfg.Limits.MaxTopN < cfg.Limits.DefaultTopN {
			t.Errorf("Limits.MaxTopN = %d, want >= DefaultTopN (%d)", cfg.Limits.MaxTopN, cfg.Limits.DefaultTopN)
		}
	})

	t.Run("seed is set for determinism", func(t *testing.T) {
		if cfg.Seed == 0 {
			t.Error("Seed = 0, want non-zero for determinism")
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "rules strategy", modify: func(c *Config) { c.Strategy = StrategyRules }},
		{name: "select k by silhouette", modify: func(c *Config) { c.Cluster.K = 0 }},
		{name: "unknown strategy", modify: func(c *Config) { c.Strategy = "magic" }, wantError: true},
		{name: "zero default top n", modify: func(c *Config) { c.Limits.DefaultTopN = 0 }, wantError: true},
		{name: "max top n below default", modify: func(c *Config) { c.Limits.MaxTopN = 5 }, wantError: true},
		{name: "familiarity threshold above 1", modify: func(c *Config) { c.Rules.LowFamiliarity = 1.5 }, wantError: true},
		{name: "unknown regression target", modify: func(c *Config) { c.Regression.Target = "price" }, wantError: true},
		{name: "negative default weight", modify: func(c *Config) { c.Regression.DefaultWeights.EaseOfUse = -0.1 }, wantError: true},
		{name: "all zero default weights", modify: func(c *Config) { c.Regression.DefaultWeights = Characteristics{} }, wantError: true},
		{name: "max condition not above 1", modify: func(c *Config) { c.Regression.MaxCondition = 1 }, wantError: true},
		{name: "zero tree depth", modify: func(c *Config) { c.Classifier.MaxDepth = 0 }, wantError: true},
		{name: "min samples split below 2", modify: func(c *Config) { c.Classifier.MinSamplesSplit = 1 }, wantError: true},
		{name: "single cv fold", modify: func(c *Config) { c.Classifier.CVFolds = 1 }, wantError: true},
		{name: "trust threshold above 1", modify: func(c *Config) { c.Classifier.TrustThreshold = 1.1 }, wantError: true},
		{name: "negative k", modify: func(c *Config) { c.Cluster.K = -1 }, wantError: true},
		{name: "max k below min k", modify: func(c *Config) { c.Cluster.MaxK = 1 }, wantError: true},
		{name: "zero restarts", modify: func(c *Config) { c.Cluster.NInit = 0 }, wantError: true},
		{name: "negative blend", modify: func(c *Config) { c.Blend.Base = -1 }, wantError: true},
		{name: "all zero blend", modify: func(c *Config) { c.Blend = BlendConfig{} }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	original := DefaultConfig()
	original.Cluster.K = 5

	clone := original.Clone()

	t.Run("clone has same values", func(t *testing.T) {
		if clone.Cluster.K != original.Cluster.K {
			t.Errorf("clone.Cluster.K = %d, want %d", clone.Cluster.K, original.Cluster.K)
		}
	})

	t.Run("clone is independent", func(t *testing.T) {
		clone.Cluster.K = 2
		clone.Regression.DefaultWeights.EaseOfUse = 0.9
		if original.Cluster.K == clone.Cluster.K {
			t.Error("modifying clone affected original")
		}
		if original.Regression.DefaultWeights.EaseOfUse == 0.9 {
			t.Error("modifying clone weights affected original")
		}
	})
}

func TestConfig_EffectiveSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 0
	if got := cfg.EffectiveSeed(); got != 42 {
		t.Errorf("EffectiveSeed() = %d, want 42", got)
	}
	cfg.Seed = 7
	if got := cfg.EffectiveSeed(); got != 7 {
		t.Errorf("EffectiveSeed() = %d, want 7", got)
	}
}

func TestConfig_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	regression, ok := parsed["regression"].(map[string]interface{})
	if !ok {
		t.Fatal("regression field not found or wrong type")
	}
	weights, ok := regression["default_weights"].(map[string]interface{})
	if !ok {
		t.Fatal("regression.default_weights not found or wrong type")
	}
	if weights["engagement_potential"] != 0.25 {
		t.Errorf("default_weights.engagement_potential = %v, want 0.25", weights["engagement_potential"])
	}
}
