// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrNoSnapshot is returned by SnapshotStore.Load when nothing was saved yet.
var ErrNoSnapshot = errors.New("no catalog snapshot")

// Key prefixes for BadgerDB storage
const (
	snapshotMetaKey = "snapshot:meta"
	snapshotDataKey = "snapshot:data"
)

// StoredSnapshot is the last catalog document that loaded successfully.
type StoredSnapshot struct {
	Source  string    `json:"source"`
	Format  Format    `json:"format"`
	Hash    string    `json:"hash"`
	SavedAt time.Time `json:"saved_at"`

	// Data is the raw document and is stored under its own key.
	Data []byte `json:"-"`
}

// SnapshotStore keeps the last-known-good catalog document in BadgerDB so
// the service can start with it while the catalog source is unreachable.
type SnapshotStore struct {
	db *badger.DB
}

// OpenSnapshotStore opens (or creates) a BadgerDB at path.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for catalog snapshots: %w", err)
	}
	return NewSnapshotStore(db), nil
}

// NewSnapshotStore wraps an open BadgerDB. The caller keeps ownership of db
// unless Close is called.
func NewSnapshotStore(db *badger.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save replaces the stored snapshot. Metadata and document are written in
// one transaction.
func (s *SnapshotStore) Save(snap *StoredSnapshot) error {
	meta, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot meta: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(snapshotDataKey), snap.Data); err != nil {
			return fmt.Errorf("set snapshot data: %w", err)
		}
		if err := txn.Set([]byte(snapshotMetaKey), meta); err != nil {
			return fmt.Errorf("set snapshot meta: %w", err)
		}
		return nil
	})
}

// Load returns the stored snapshot, or ErrNoSnapshot.
func (s *SnapshotStore) Load() (*StoredSnapshot, error) {
	var snap StoredSnapshot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotMetaKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSnapshot
		}
		if err != nil {
			return fmt.Errorf("get snapshot meta: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		}); err != nil {
			return fmt.Errorf("unmarshal snapshot meta: %w", err)
		}

		item, err = txn.Get([]byte(snapshotDataKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSnapshot
		}
		if err != nil {
			return fmt.Errorf("get snapshot data: %w", err)
		}
		snap.Data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Close closes the underlying BadgerDB.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
