// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/classmatch/internal/catalog"
	"github.com/tomtom215/classmatch/internal/recommend"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Catalog.Path != catalog.DefaultPath {
		t.Errorf("Catalog.Path = %q, want %q", cfg.Catalog.Path, catalog.DefaultPath)
	}
}

func TestRecommendConfig_MatchesEngineDefaults(t *testing.T) {
	got := defaultConfig().RecommendConfig()
	want := recommend.DefaultConfig()
	if *got != *want {
		t.Errorf("RecommendConfig() = %+v, want %+v", got, want)
	}
}

func TestCatalogConfig_MatchesCatalogDefaults(t *testing.T) {
	got := defaultConfig().CatalogConfig()
	want := catalog.DefaultConfig()
	if got != want {
		t.Errorf("CatalogConfig() = %+v, want %+v", got, want)
	}
}

func TestLoggingInit(t *testing.T) {
	cfg := defaultConfig()
	cfg.Logging = LoggingConfig{Level: "debug", Format: "console", Caller: true}

	lc := cfg.LoggingInit()
	if lc.Level != "debug" || lc.Format != "console" || !lc.Caller || !lc.Timestamp {
		t.Errorf("LoggingInit() = %+v", lc)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := s.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9000", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"bad environment", func(c *Config) { c.Server.Environment = "prod" }, "ENVIRONMENT"},
		{"zero timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "timeouts"},
		{"rate limit zero", func(c *Config) { c.Server.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate window too short", func(c *Config) { c.Server.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"reload interval", func(c *Config) { c.Server.ReloadInterval = 0 }, "RELOAD_INTERVAL"},
		{"reload burst", func(c *Config) { c.Server.ReloadBurst = 0 }, "RELOAD_BURST"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"no catalog source", func(c *Config) { c.Catalog.Path = "" }, "catalog path or url"},
		{"bad catalog format", func(c *Config) { c.Catalog.Format = "toml" }, "catalog format"},
		{"bad catalog url", func(c *Config) { c.Catalog.URL = "ftp://example.org/c.json" }, "CATALOG_URL"},
		{"bad cron", func(c *Config) { c.Catalog.ReloadSchedule = "every now and then" }, "CATALOG_RELOAD_SCHEDULE"},
		{"bad strategy", func(c *Config) { c.Recommend.Strategy = "random" }, "strategy"},
		{"bad top n", func(c *Config) { c.Recommend.DefaultTopN = 0 }, "default_top_n"},
		{"bad trust threshold", func(c *Config) { c.Recommend.Classifier.TrustThreshold = 1.5 }, "trust_threshold"},
		{"bad regression target", func(c *Config) { c.Recommend.Regression.Target = "price" }, "regression.target"},
		{"bad cluster range", func(c *Config) { c.Recommend.Cluster.MaxK = 1 }, "cluster.max_k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"rate limit disabled ignores bounds", func(c *Config) {
			c.Server.RateLimitDisabled = true
			c.Server.RateLimitReqs = 0
		}},
		{"production with explicit origins", func(c *Config) {
			c.Server.Environment = "production"
			c.Server.CORSOrigins = []string{"https://school.example.org"}
		}},
		{"catalog url with path", func(c *Config) { c.Catalog.URL = "https://example.org/catalogs/edtech.yaml" }},
		{"scheduled reloads disabled", func(c *Config) { c.Catalog.ReloadSchedule = "" }},
		{"standard cron", func(c *Config) { c.Catalog.ReloadSchedule = "0 */6 * * *" }},
		{"rules strategy", func(c *Config) { c.Recommend.Strategy = "rules" }},
		{"silhouette k", func(c *Config) { c.Recommend.Cluster.K = 0 }},
		{"empty log format", func(c *Config) { c.Logging.Format = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestString(t *testing.T) {
	cfg := defaultConfig()
	s := cfg.String()
	for _, want := range []string{"0.0.0.0:8080", "development", catalog.DefaultPath, "ml"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
