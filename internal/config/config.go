// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/classmatch/internal/catalog"
	"github.com/tomtom215/classmatch/internal/logging"
	"github.com/tomtom215/classmatch/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging or production

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// ReloadInterval is the minimum spacing of manual catalog reloads.
	ReloadInterval time.Duration `koanf:"reload_interval"`
	ReloadBurst    int           `koanf:"reload_burst"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig holds catalog source settings.
type CatalogConfig struct {
	Path           string        `koanf:"path"`
	URL            string        `koanf:"url"`
	Format         string        `koanf:"format"`
	ReloadSchedule string        `koanf:"reload_schedule"` // cron expression, empty disables
	HTTPTimeout    time.Duration `koanf:"http_timeout"`
	RetryAttempts  int           `koanf:"retry_attempts"`
	RetryDelay     time.Duration `koanf:"retry_delay"`
	SnapshotPath   string        `koanf:"snapshot_path"` // badger dir, empty disables
}

// RecommendConfig mirrors recommend.Config.
type RecommendConfig struct {
	Strategy    string `koanf:"strategy"`
	DefaultTopN int    `koanf:"default_top_n"`
	MaxTopN     int    `koanf:"max_top_n"`
	Seed        int64  `koanf:"seed"`

	Rules      RulesConfig      `koanf:"rules"`
	Regression RegressionConfig `koanf:"regression"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Cluster    ClusterConfig    `koanf:"cluster"`
	Blend      BlendConfig      `koanf:"blend"`
}

// RulesConfig holds eligibility rule thresholds.
type RulesConfig struct {
	LowFamiliarity      float64 `koanf:"low_familiarity"`
	MinEaseOfUse        float64 `koanf:"min_ease_of_use"`
	OfflineConnectivity float64 `koanf:"offline_connectivity"`
}

// RegressionConfig holds weight regressor settings.
type RegressionConfig struct {
	Target         string        `koanf:"target"`
	DefaultWeights WeightsConfig `koanf:"default_weights"`
	MaxCondition   float64       `koanf:"max_condition"`
}

// WeightsConfig holds one weight per characteristic.
type WeightsConfig struct {
	EaseOfUse                  float64 `koanf:"ease_of_use"`
	EngagementPotential        float64 `koanf:"engagement_potential"`
	PedagogicalAdaptability    float64 `koanf:"pedagogical_adaptability"`
	InfrastructureRequirements float64 `koanf:"infrastructure_requirements"`
	CostAccessibility          float64 `koanf:"cost_accessibility"`
}

// ClassifierConfig holds decision tree settings.
type ClassifierConfig struct {
	MaxDepth        int     `koanf:"max_depth"`
	MinSamplesSplit int     `koanf:"min_samples_split"`
	MinSamplesLeaf  int     `koanf:"min_samples_leaf"`
	ClassBalanced   bool    `koanf:"class_balanced"`
	CVFolds         int     `koanf:"cv_folds"`
	TrustThreshold  float64 `koanf:"trust_threshold"`
}

// ClusterConfig holds k-means settings. K 0 selects K by silhouette.
type ClusterConfig struct {
	K            int     `koanf:"k"`
	MinK         int     `koanf:"min_k"`
	MaxK         int     `koanf:"max_k"`
	NInit        int     `koanf:"n_init"`
	MaxIter      int     `koanf:"max_iter"`
	Tolerance    float64 `koanf:"tolerance"`
	ExtraMetrics bool    `koanf:"extra_metrics"`
}

// BlendConfig holds rule-strategy blend weights.
type BlendConfig struct {
	Base        float64 `koanf:"base"`
	Association float64 `koanf:"association"`
	Similarity  float64 `koanf:"similarity"`
}

// LoggingInit converts the logging section to a logging.Config.
func (c *Config) LoggingInit() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

// CatalogConfig converts the catalog section to a catalog.Config.
func (c *Config) CatalogConfig() catalog.Config {
	return catalog.Config{
		Path:           c.Catalog.Path,
		URL:            c.Catalog.URL,
		Format:         catalog.Format(c.Catalog.Format),
		ReloadSchedule: c.Catalog.ReloadSchedule,
		HTTPTimeout:    c.Catalog.HTTPTimeout,
		RetryAttempts:  c.Catalog.RetryAttempts,
		RetryDelay:     c.Catalog.RetryDelay,
		SnapshotPath:   c.Catalog.SnapshotPath,
	}
}

// RecommendConfig converts the recommend section to a recommend.Config.
func (c *Config) RecommendConfig() *recommend.Config {
	r := &c.Recommend
	return &recommend.Config{
		Strategy: recommend.Strategy(r.Strategy),
		Limits: recommend.LimitsConfig{
			DefaultTopN: r.DefaultTopN,
			MaxTopN:     r.MaxTopN,
		},
		Rules: recommend.RulesConfig{
			LowFamiliarity:      r.Rules.LowFamiliarity,
			MinEaseOfUse:        r.Rules.MinEaseOfUse,
			OfflineConnectivity: r.Rules.OfflineConnectivity,
		},
		Regression: recommend.RegressionConfig{
			Target: r.Regression.Target,
			DefaultWeights: recommend.Characteristics{
				EaseOfUse:                  r.Regression.DefaultWeights.EaseOfUse,
				EngagementPotential:        r.Regression.DefaultWeights.EngagementPotential,
				PedagogicalAdaptability:    r.Regression.DefaultWeights.PedagogicalAdaptability,
				InfrastructureRequirements: r.Regression.DefaultWeights.InfrastructureRequirements,
				CostAccessibility:          r.Regression.DefaultWeights.CostAccessibility,
			},
			MaxCondition: r.Regression.MaxCondition,
		},
		Classifier: recommend.ClassifierConfig{
			MaxDepth:        r.Classifier.MaxDepth,
			MinSamplesSplit: r.Classifier.MinSamplesSplit,
			MinSamplesLeaf:  r.Classifier.MinSamplesLeaf,
			ClassBalanced:   r.Classifier.ClassBalanced,
			CVFolds:         r.Classifier.CVFolds,
			TrustThreshold:  r.Classifier.TrustThreshold,
		},
		Cluster: recommend.ClusterConfig{
			K:            r.Cluster.K,
			MinK:         r.Cluster.MinK,
			MaxK:         r.Cluster.MaxK,
			NInit:        r.Cluster.NInit,
			MaxIter:      r.Cluster.MaxIter,
			Tolerance:    r.Cluster.Tolerance,
			ExtraMetrics: r.Cluster.ExtraMetrics,
		},
		Blend: recommend.BlendConfig{
			Base:        r.Blend.Base,
			Association: r.Blend.Association,
			Similarity:  r.Blend.Similarity,
		},
		Seed: r.Seed,
	}
}

// String summarizes the configuration for startup logs.
func (c *Config) String() string {
	source := c.Catalog.Path
	if c.Catalog.URL != "" {
		source = c.Catalog.URL
	}
	return fmt.Sprintf("addr=%s env=%s catalog=%s strategy=%s", c.Server.Addr(), c.Server.Environment, source, c.Recommend.Strategy)
}
