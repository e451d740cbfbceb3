// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package uploads keeps the datasets available for simulation: files
// registered at startup and CSV uploads persisted in BadgerDB.
package uploads

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/packetsim/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	metaKeyPrefix = "dataset_meta:"
	blobKeyPrefix = "dataset_blob:"
)

// StoreConfig configures the upload store.
type StoreConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps uploads in memory only; they are lost on restart.
	InMemory bool
}

// Store persists uploaded CSV blobs and their metadata.
type Store struct {
	db       *badger.DB
	inMemory bool
}

// OpenStore opens (or creates) the upload store.
func OpenStore(cfg StoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("upload store path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open upload store: %w", err)
	}
	return &Store{db: db, inMemory: cfg.InMemory}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// gcDiscardRatio is the fraction of stale data a value log file needs
// before it is rewritten.
const gcDiscardRatio = 0.5

// RunGC rewrites value log files until badger reports nothing left to
// reclaim. Deleted uploads only free disk space after a GC pass.
func (s *Store) RunGC() error {
	if s.inMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("upload store gc: %w", err)
		}
	}
}

// Put stores the blob and metadata of a dataset atomically.
func (s *Store) Put(_ context.Context, info models.DatasetInfo, blob []byte) error {
	meta, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal dataset info: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(blobKeyPrefix+info.ID), blob); err != nil {
			return fmt.Errorf("set dataset blob: %w", err)
		}
		if err := txn.Set([]byte(metaKeyPrefix+info.ID), meta); err != nil {
			return fmt.Errorf("set dataset info: %w", err)
		}
		return nil
	})
}

// Info returns the metadata of an uploaded dataset.
func (s *Store) Info(_ context.Context, id string) (models.DatasetInfo, error) {
	var info models.DatasetInfo

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get dataset info: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &info)
		})
	})
	return info, err
}

// Blob returns a copy of the raw CSV of an uploaded dataset.
func (s *Store) Blob(_ context.Context, id string) ([]byte, error) {
	var blob []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(blobKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get dataset blob: %w", err)
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	return blob, err
}

// List returns the metadata of every uploaded dataset.
func (s *Store) List(_ context.Context) ([]models.DatasetInfo, error) {
	var out []models.DatasetInfo

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var info models.DatasetInfo
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &info)
			})
			if err != nil {
				return fmt.Errorf("decode dataset info %s: %w", it.Item().Key(), err)
			}
			out = append(out, info)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return out, nil
}

// Delete removes an uploaded dataset.
func (s *Store) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(metaKeyPrefix + id)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return fmt.Errorf("get dataset info: %w", err)
		}
		if err := txn.Delete([]byte(metaKeyPrefix + id)); err != nil {
			return fmt.Errorf("delete dataset info: %w", err)
		}
		if err := txn.Delete([]byte(blobKeyPrefix + id)); err != nil {
			return fmt.Errorf("delete dataset blob: %w", err)
		}
		return nil
	})
}

// Count returns the number of uploaded datasets.
func (s *Store) Count(_ context.Context) (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
