// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(path, []byte(jsonArray), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	if src.Name() != path {
		t.Errorf("Name() = %q, want %q", src.Name(), path)
	}

	data, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != jsonArray {
		t.Error("Fetch() returned unexpected content")
	}
}

func TestFileSource_Missing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewFileSource(filepath.Join("testdata", "catalog.json"))
	if _, err := src.Fetch(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestHTTPSource_Fetch(t *testing.T) {
	var userAgent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jsonDocument))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, time.Second, 0, time.Millisecond)
	data, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != jsonDocument {
		t.Error("Fetch() returned unexpected content")
	}
	if ua, _ := userAgent.Load().(string); !strings.HasPrefix(ua, "Classmatch-Catalog/") {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestHTTPSource_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(jsonArray))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, time.Second, 2, time.Millisecond)
	if _, err := src.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestHTTPSource_AllAttemptsFail(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, time.Second, 1, time.Millisecond)
	_, err := src.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "all 2 attempts failed") {
		t.Errorf("error = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server called %d times, want 2", got)
	}
}

func TestHTTPSource_CancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	src := NewHTTPSource(server.URL, time.Second, 5, time.Hour)
	start := time.Now()
	if _, err := src.Fetch(ctx); err == nil {
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Fetch() took %v, expected to stop on context cancellation", elapsed)
	}
}

func TestNewSource(t *testing.T) {
	cfg := DefaultConfig()
	if _, ok := NewSource(cfg).(*FileSource); !ok {
		t.Error("expected FileSource for path config")
	}

	cfg.URL = "https://example.org/catalog.json"
	src := NewSource(cfg)
	if _, ok := src.(*BreakerSource); !ok {
		t.Errorf("expected BreakerSource for url config, got %T", src)
	}
	if src.Name() != cfg.URL {
		t.Errorf("Name() = %q, want %q", src.Name(), cfg.URL)
	}
}
