// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package catalog

import (
	"fmt"
	"time"
)

const (
	// DefaultPath is the catalog file shipped with the service.
	DefaultPath = "data/catalog.json"

	// DefaultHTTPTimeout is the timeout for a single catalog fetch.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultReloadSchedule reloads the catalog every 15 minutes.
	DefaultReloadSchedule = "@every 15m"

	// maxCatalogBytes limits the size of a fetched catalog.
	maxCatalogBytes = 10 * 1024 * 1024
)

// Config configures where the catalog is loaded from.
type Config struct {
	// Path is a local catalog file. Used when URL is empty.
	Path string `json:"path"`

	// URL is a remote catalog. Takes precedence over Path.
	URL string `json:"url"`

	// Format is "json", "yaml" or "auto" (by extension, then by content).
	Format Format `json:"format"`

	// ReloadSchedule is a cron expression for background reloads.
	// Empty disables scheduled reloads.
	ReloadSchedule string `json:"reload_schedule"`

	// HTTPTimeout is the timeout for a single HTTP fetch.
	HTTPTimeout time.Duration `json:"http_timeout"`

	// RetryAttempts is the number of retries after a failed HTTP fetch.
	RetryAttempts int `json:"retry_attempts"`

	// RetryDelay is the initial delay between retries (doubles each attempt).
	RetryDelay time.Duration `json:"retry_delay"`

	// SnapshotPath is a BadgerDB directory holding the last document that
	// loaded successfully. Empty disables snapshots.
	SnapshotPath string `json:"snapshot_path"`
}

// DefaultConfig returns sensible defaults for a file-backed catalog.
func DefaultConfig() Config {
	return Config{
		Path:           DefaultPath,
		Format:         FormatAuto,
		ReloadSchedule: DefaultReloadSchedule,
		HTTPTimeout:    DefaultHTTPTimeout,
		RetryAttempts:  2,
		RetryDelay:     2 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Path == "" && c.URL == "" {
		return fmt.Errorf("catalog path or url is required")
	}
	if !c.Format.Valid() {
		return fmt.Errorf("catalog format must be json, yaml or auto, got %q", c.Format)
	}
	if c.URL != "" && c.HTTPTimeout <= 0 {
		return fmt.Errorf("catalog http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("catalog retry_attempts must be non-negative, got %d", c.RetryAttempts)
	}
	return nil
}

// NewSource builds the source described by the configuration.
// A URL source is wrapped in a circuit breaker.
func NewSource(cfg Config) Source {
	if cfg.URL != "" {
		return NewBreakerSource(NewHTTPSource(cfg.URL, cfg.HTTPTimeout, cfg.RetryAttempts, cfg.RetryDelay))
	}
	return NewFileSource(cfg.Path)
}
