// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/classmatch/internal/catalog"
	"github.com/tomtom215/classmatch/internal/recommend"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/classmatch/config.yaml",
	"/etc/classmatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. They are applied first and
// overridden by the config file and then by environment variables.
func defaultConfig() *Config {
	rec := recommend.DefaultConfig()
	cat := catalog.DefaultConfig()
	w := rec.Regression.DefaultWeights

	return &Config{
		Server: ServerConfig{
			Port:              8080,
			Host:              "0.0.0.0",
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			ReloadInterval:    30 * time.Second,
			ReloadBurst:       1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Path:           cat.Path,
			URL:            "",
			Format:         string(cat.Format),
			ReloadSchedule: cat.ReloadSchedule,
			HTTPTimeout:    cat.HTTPTimeout,
			RetryAttempts:  cat.RetryAttempts,
			RetryDelay:     cat.RetryDelay,
		},
		Recommend: RecommendConfig{
			Strategy:    string(rec.Strategy),
			DefaultTopN: rec.Limits.DefaultTopN,
			MaxTopN:     rec.Limits.MaxTopN,
			Seed:        rec.Seed,
			Rules: RulesConfig{
				LowFamiliarity:      rec.Rules.LowFamiliarity,
				MinEaseOfUse:        rec.Rules.MinEaseOfUse,
				OfflineConnectivity: rec.Rules.OfflineConnectivity,
			},
			Regression: RegressionConfig{
				Target: rec.Regression.Target,
				DefaultWeights: WeightsConfig{
					EaseOfUse:                  w.EaseOfUse,
					EngagementPotential:        w.EngagementPotential,
					PedagogicalAdaptability:    w.PedagogicalAdaptability,
					InfrastructureRequirements: w.InfrastructureRequirements,
					CostAccessibility:          w.CostAccessibility,
				},
				MaxCondition: rec.Regression.MaxCondition,
			},
			Classifier: ClassifierConfig{
				MaxDepth:        rec.Classifier.MaxDepth,
				MinSamplesSplit: rec.Classifier.MinSamplesSplit,
				MinSamplesLeaf:  rec.Classifier.MinSamplesLeaf,
				ClassBalanced:   rec.Classifier.ClassBalanced,
				CVFolds:         rec.Classifier.CVFolds,
				TrustThreshold:  rec.Classifier.TrustThreshold,
			},
			Cluster: ClusterConfig{
				K:            rec.Cluster.K,
				MinK:         rec.Cluster.MinK,
				MaxK:         rec.Cluster.MaxK,
				NInit:        rec.Cluster.NInit,
				MaxIter:      rec.Cluster.MaxIter,
				Tolerance:    rec.Cluster.Tolerance,
				ExtraMetrics: rec.Cluster.ExtraMetrics,
			},
			Blend: BlendConfig{
				Base:        rec.Blend.Base,
				Association: rec.Blend.Association,
				Similarity:  rec.Blend.Similarity,
			},
		},
	}
}

// Load reads configuration from layered sources:
//  1. Defaults: built-in values
//  2. Config file: optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables: mapped through envMappings
//
// Later layers win. The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated string values of known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"reload_interval":       "server.reload_interval",
	"reload_burst":          "server.reload_burst",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_path":            "catalog.path",
	"catalog_url":             "catalog.url",
	"catalog_format":          "catalog.format",
	"catalog_reload_schedule": "catalog.reload_schedule",
	"catalog_http_timeout":    "catalog.http_timeout",
	"catalog_retry_attempts":  "catalog.retry_attempts",
	"catalog_retry_delay":     "catalog.retry_delay",
	"catalog_snapshot_path":   "catalog.snapshot_path",

	// Recommendation engine
	"recommend_strategy":      "recommend.strategy",
	"recommend_default_top_n": "recommend.default_top_n",
	"recommend_max_top_n":     "recommend.max_top_n",
	"recommend_seed":          "recommend.seed",
	// Rules
	"recommend_low_familiarity":      "recommend.rules.low_familiarity",
	"recommend_min_ease_of_use":      "recommend.rules.min_ease_of_use",
	"recommend_offline_connectivity": "recommend.rules.offline_connectivity",
	// Regression
	"recommend_regression_target":        "recommend.regression.target",
	"recommend_regression_max_condition": "recommend.regression.max_condition",
	"recommend_weight_ease_of_use":       "recommend.regression.default_weights.ease_of_use",
	"recommend_weight_engagement":        "recommend.regression.default_weights.engagement_potential",
	"recommend_weight_adaptability":      "recommend.regression.default_weights.pedagogical_adaptability",
	"recommend_weight_infrastructure":    "recommend.regression.default_weights.infrastructure_requirements",
	"recommend_weight_cost":              "recommend.regression.default_weights.cost_accessibility",
	// Classifier
	"recommend_tree_max_depth":         "recommend.classifier.max_depth",
	"recommend_tree_min_samples_split": "recommend.classifier.min_samples_split",
	"recommend_tree_min_samples_leaf":  "recommend.classifier.min_samples_leaf",
	"recommend_tree_class_balanced":    "recommend.classifier.class_balanced",
	"recommend_tree_cv_folds":          "recommend.classifier.cv_folds",
	"recommend_tree_trust_threshold":   "recommend.classifier.trust_threshold",
	// Cluster
	"recommend_cluster_k":             "recommend.cluster.k",
	"recommend_cluster_min_k":         "recommend.cluster.min_k",
	"recommend_cluster_max_k":         "recommend.cluster.max_k",
	"recommend_cluster_n_init":        "recommend.cluster.n_init",
	"recommend_cluster_max_iter":      "recommend.cluster.max_iter",
	"recommend_cluster_tolerance":     "recommend.cluster.tolerance",
	"recommend_cluster_extra_metrics": "recommend.cluster.extra_metrics",
	// Blend
	"recommend_blend_base":        "recommend.blend.base",
	"recommend_blend_association": "recommend.blend.association",
	"recommend_blend_similarity":  "recommend.blend.similarity",
}

// envTransformFunc maps an environment variable name to a koanf path.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - CATALOG_URL -> catalog.url
//   - RECOMMEND_CLUSTER_K -> recommend.cluster.k
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
