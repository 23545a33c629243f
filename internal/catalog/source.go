// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tomtom215/classmatch/internal/logging"
)

// Source fetches the raw bytes of a catalog document.
type Source interface {
	// Fetch returns the current document.
	Fetch(ctx context.Context) ([]byte, error)

	// Name identifies the source in logs and snapshots (a path or URL).
	Name() string
}

// FileSource reads the catalog from a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return data, nil
}

// Name returns the file path.
func (s *FileSource) Name() string { return s.path }

// HTTPSource fetches the catalog over HTTP with exponential backoff retries.
type HTTPSource struct {
	url           string
	client        *http.Client
	retryAttempts int
	retryDelay    time.Duration
}

// NewHTTPSource creates an HTTP-backed source.
func NewHTTPSource(url string, timeout time.Duration, retryAttempts int, retryDelay time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &HTTPSource{
		url:           url,
		client:        &http.Client{Timeout: timeout},
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
	}
}

// Name returns the URL.
func (s *HTTPSource) Name() string { return s.url }

// Fetch fetches the document, retrying failed attempts.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	delay := s.retryDelay

	for attempt := 0; attempt <= s.retryAttempts; attempt++ {
		if attempt > 0 {
			logging.Info().
				Int("attempt", attempt).
				Int("max_attempts", s.retryAttempts).
				Dur("delay", delay).
				Msg("Retrying catalog fetch")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		data, err := s.fetch(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
		logging.Warn().Err(err).Int("attempt", attempt+1).Msg("Catalog fetch attempt failed")
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", s.retryAttempts+1, lastErr)
}

// fetch performs a single HTTP GET request.
func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Classmatch-Catalog/1.0")
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}
