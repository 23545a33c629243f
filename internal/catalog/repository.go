// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/classmatch/internal/logging"
	"github.com/tomtom215/classmatch/internal/metrics"
	"github.com/tomtom215/classmatch/internal/recommend"
)

// ErrNotLoaded is returned by reads before the first successful load.
var ErrNotLoaded = errors.New("catalog not loaded")

// Ensure Repository implements recommend.CatalogProvider
var _ recommend.CatalogProvider = (*Repository)(nil)

// snapshot pairs an immutable catalog with its id index.
type snapshot struct {
	catalog *recommend.Catalog
	index   map[string]int
}

// Status describes the load history of the repository.
type Status struct {
	Source      string    `json:"source"`
	Version     int64     `json:"version"`
	Resources   int       `json:"resources"`
	DataHash    string    `json:"data_hash"`
	LastAttempt time.Time `json:"last_attempt"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`

	// FromSnapshot is set while the served catalog was restored from the
	// snapshot store rather than fetched from the source.
	FromSnapshot bool `json:"from_snapshot,omitempty"`
}

// Repository serves immutable catalog snapshots and swaps them atomically on
// reload. Readers never block on a reload and never see a partial catalog.
type Repository struct {
	source Source
	format Format
	logger zerolog.Logger

	current atomic.Pointer[snapshot]
	version atomic.Int64

	reloadMu  sync.Mutex // serializes reloads
	snapshots *SnapshotStore

	statusMu sync.RWMutex
	status   Status
}

// NewRepository creates an empty repository. Call Reload to load it.
func NewRepository(source Source, format Format) *Repository {
	if format == "" {
		format = FormatAuto
	}
	return &Repository{
		source: source,
		format: format,
		logger: logging.WithComponent("catalog"),
		status: Status{Source: source.Name()},
	}
}

// SetSnapshotStore enables saving every newly loaded document to store.
// Call before the first Reload.
func (r *Repository) SetSnapshotStore(store *SnapshotStore) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	r.snapshots = store
}

// GetAll returns the current snapshot.
func (r *Repository) GetAll(_ context.Context) (*recommend.Catalog, error) {
	s := r.current.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s.catalog, nil
}

// GetByID returns one resource of the current snapshot.
// The returned resource must not be modified.
func (r *Repository) GetByID(_ context.Context, id string) (*recommend.Resource, error) {
	s := r.current.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", recommend.ErrResourceNotFound, id)
	}
	return &s.catalog.Resources[i], nil
}

// Version returns the version of the current snapshot, or 0 before the first load.
func (r *Repository) Version() int64 {
	if s := r.current.Load(); s != nil {
		return s.catalog.Version
	}
	return 0
}

// Reload fetches, decodes and validates the source and publishes a new
// snapshot. An unchanged document keeps the current snapshot and version.
// On failure the previous snapshot stays in place.
func (r *Repository) Reload(ctx context.Context) (*recommend.Catalog, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	start := time.Now()
	r.statusMu.Lock()
	r.status.LastAttempt = start
	r.statusMu.Unlock()

	cat, changed, err := r.load(ctx)
	if err != nil {
		metrics.RecordCatalogLoad(time.Since(start), 0, 0, err)
		r.statusMu.Lock()
		r.status.LastError = err.Error()
		r.statusMu.Unlock()
		r.logger.Warn().Err(err).Str("source", r.source.Name()).Msg("Catalog reload failed")
		return nil, err
	}

	metrics.RecordCatalogLoad(time.Since(start), len(cat.Resources), cat.Version, nil)
	r.statusMu.Lock()
	r.status.LastSuccess = time.Now()
	r.status.LastError = ""
	r.status.FromSnapshot = false
	r.status.Version = cat.Version
	r.status.Resources = len(cat.Resources)
	r.statusMu.Unlock()

	if changed {
		r.logger.Info().
			Str("source", cat.Source).
			Int("resources", len(cat.Resources)).
			Int64("version", cat.Version).
			Msg("Catalog loaded")
	} else {
		r.logger.Debug().Int64("version", cat.Version).Msg("Catalog unchanged")
	}
	return cat, nil
}

// load performs one reload attempt. reloadMu must be held.
func (r *Repository) load(ctx context.Context) (*recommend.Catalog, bool, error) {
	data, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("fetch catalog: %w", err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	r.statusMu.RLock()
	previous := r.status.DataHash
	r.statusMu.RUnlock()
	if current := r.current.Load(); current != nil && hash == previous {
		return current.catalog, false, nil
	}

	format := DetectFormat(r.source.Name(), data, r.format)
	resources, err := Decode(data, format)
	if err != nil {
		return nil, false, fmt.Errorf("decode catalog from %s: %w", r.source.Name(), err)
	}

	cat := r.publish(resources, r.source.Name())

	r.statusMu.Lock()
	r.status.DataHash = hash
	r.statusMu.Unlock()

	if r.snapshots != nil {
		err := r.snapshots.Save(&StoredSnapshot{
			Source:  r.source.Name(),
			Format:  format,
			Hash:    hash,
			SavedAt: cat.LoadedAt,
			Data:    data,
		})
		if err != nil {
			r.logger.Warn().Err(err).Msg("Failed to save catalog snapshot")
		}
	}
	return cat, true, nil
}

// publish stores a new immutable snapshot with the next version.
func (r *Repository) publish(resources []recommend.Resource, source string) *recommend.Catalog {
	index := make(map[string]int, len(resources))
	for i := range resources {
		index[resources[i].ID] = i
	}

	cat := &recommend.Catalog{
		Resources: resources,
		Version:   r.version.Add(1),
		Source:    source,
		LoadedAt:  time.Now().UTC(),
	}
	r.current.Store(&snapshot{catalog: cat, index: index})
	return cat
}

// Restore publishes the last-known-good document from the snapshot store.
// It is meant for startup when the first Reload failed. If a catalog is
// already loaded it is returned unchanged.
func (r *Repository) Restore() (*recommend.Catalog, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	if current := r.current.Load(); current != nil {
		return current.catalog, nil
	}
	if r.snapshots == nil {
		return nil, ErrNoSnapshot
	}

	stored, err := r.snapshots.Load()
	if err != nil {
		return nil, err
	}
	resources, err := Decode(stored.Data, stored.Format)
	if err != nil {
		return nil, fmt.Errorf("decode catalog snapshot of %s: %w", stored.Source, err)
	}

	cat := r.publish(resources, stored.Source)

	// DataHash stays empty so the next successful fetch republishes from
	// the source even when the document is identical.
	r.statusMu.Lock()
	r.status.FromSnapshot = true
	r.status.Version = cat.Version
	r.status.Resources = len(cat.Resources)
	r.statusMu.Unlock()

	r.logger.Warn().
		Str("source", stored.Source).
		Time("saved_at", stored.SavedAt).
		Int("resources", len(cat.Resources)).
		Msg("Serving catalog restored from snapshot")
	return cat, nil
}

// Status returns a copy of the load status.
func (r *Repository) Status() Status {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}
