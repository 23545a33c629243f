// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tomtom215/classmatch/internal/logging"
)

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that the configuration is complete and in range.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return c.validateRecommend()
}

// validateServer validates the HTTP server section.
func (c *Config) validateServer() error {
	s := &c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[s.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	if s.ReadTimeout <= 0 || s.WriteTimeout <= 0 || s.IdleTimeout <= 0 || s.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP server timeouts must be positive")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 || s.RateLimitReqs > 100000 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000")
		}
		if s.RateLimitWindow < time.Second || s.RateLimitWindow > time.Hour {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be between 1s and 1h")
		}
	}
	if s.ReloadInterval <= 0 {
		return fmt.Errorf("RELOAD_INTERVAL must be positive")
	}
	if s.ReloadBurst < 1 {
		return fmt.Errorf("RELOAD_BURST must be at least 1")
	}
	return c.validateCORS()
}

// validateCORS rejects a wildcard origin in production.
func (c *Config) validateCORS() error {
	if c.Server.Environment != "production" {
		return nil
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain '*' when ENVIRONMENT=production")
		}
	}
	return nil
}

// validateLogging validates the logging section.
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateCatalog validates the catalog section.
func (c *Config) validateCatalog() error {
	cat := c.CatalogConfig()
	if err := cat.Validate(); err != nil {
		return err
	}
	if cat.URL != "" {
		if err := validateHTTPURL(cat.URL, "CATALOG_URL"); err != nil {
			return err
		}
	}
	if cat.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(cat.ReloadSchedule); err != nil {
			return fmt.Errorf("CATALOG_RELOAD_SCHEDULE is invalid: %w", err)
		}
	}
	return nil
}

// validateRecommend validates the recommend section.
func (c *Config) validateRecommend() error {
	if err := c.RecommendConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// validateHTTPURL checks that rawURL is an absolute http or https URL.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}
