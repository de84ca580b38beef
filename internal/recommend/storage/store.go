// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package storage persists trained recommendation state in BadgerDB.
//
// Three kinds of records live in one database:
//
//   - model snapshots ("model:{name}:data" plus "model:{name}:meta"), written
//     atomically with a monotonically increasing version and a SHA-256
//     checksum of the payload
//   - small JSON documents such as the CF training watermark
//   - bandit state, rewritten after each feedback update
//
// Readers poll ModelVersion, which touches only the small metadata record,
// to decide whether a reload is needed.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/platepicker/internal/logging"
)

var (
	// ErrNotFound is returned when a key or model does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrChecksumMismatch is returned when a stored payload is corrupt.
	ErrChecksumMismatch = errors.New("storage: checksum mismatch")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("storage: closed")
)

// ModelMetadata describes a stored model snapshot.
type ModelMetadata struct {
	Name               string    `json:"name"`
	Version            int       `json:"version"`
	TrainedAt          time.Time `json:"trained_at"`
	SavedAt            time.Time `json:"saved_at"`
	InteractionCount   int       `json:"interaction_count"`
	UserCount          int       `json:"user_count"`
	ItemCount          int       `json:"item_count"`
	Checksum           string    `json:"checksum"`
	SizeBytes          int64     `json:"size_bytes"`
	TrainingDurationMS int64     `json:"training_duration_ms"`
}

// Store is a BadgerDB-backed key/value store for model state.
type Store struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	return open(opts, path)
}

// OpenInMemory opens a store that lives only for the process lifetime.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, ":memory:")
}

func open(opts badger.Options, label string) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	logging.Info().Str("path", label).Msg("Model store opened")
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func modelDataKey(name string) []byte { return []byte("model:" + name + ":data") }
func modelMetaKey(name string) []byte { return []byte("model:" + name + ":meta") }
func docKey(name string) []byte       { return []byte("doc:" + name) }

// SaveModel serializes data and stores it as the next version of name.
// Version, SavedAt, Checksum and SizeBytes in meta are overwritten.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) SaveModel(ctx context.Context, name string, data interface{}, meta ModelMetadata) (ModelMetadata, error) {
	if err := s.check(ctx); err != nil {
		return ModelMetadata{}, err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return ModelMetadata{}, fmt.Errorf("encode model: %w", err)
	}
	sum := sha256.Sum256(payload)

	meta.Name = name
	meta.SavedAt = time.Now().UTC()
	meta.Checksum = hex.EncodeToString(sum[:])
	meta.SizeBytes = int64(len(payload))

	err = s.db.Update(func(txn *badger.Txn) error {
		prev, err := readMeta(txn, name)
		switch {
		case errors.Is(err, ErrNotFound):
			meta.Version = 1
		case err != nil:
			return err
		default:
			meta.Version = prev.Version + 1
		}

		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		if err := txn.Set(modelDataKey(name), payload); err != nil {
			return err
		}
		return txn.Set(modelMetaKey(name), metaBytes)
	})
	if err != nil {
		return ModelMetadata{}, fmt.Errorf("save model %s: %w", name, err)
	}

	logging.Info().
		Str("model", name).
		Int("version", meta.Version).
		Int64("size_bytes", meta.SizeBytes).
		Msg("Model saved")
	return meta, nil
}

// LoadModel decodes the latest version of name into dst.
func (s *Store) LoadModel(ctx context.Context, name string, dst interface{}) (ModelMetadata, error) {
	if err := s.check(ctx); err != nil {
		return ModelMetadata{}, err
	}

	var meta ModelMetadata
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		m, err := readMeta(txn, name)
		if err != nil {
			return err
		}
		meta = m
		payload, err = readValue(txn, modelDataKey(name))
		return err
	})
	if err != nil {
		return ModelMetadata{}, err
	}

	sum := sha256.Sum256(payload)
	if hex.EncodeToString(sum[:]) != meta.Checksum {
		return meta, fmt.Errorf("load model %s v%d: %w", name, meta.Version, ErrChecksumMismatch)
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return meta, fmt.Errorf("decode model %s: %w", name, err)
	}
	return meta, nil
}

// ModelVersion returns the latest stored version of name, or 0 if none.
func (s *Store) ModelVersion(ctx context.Context, name string) (int, error) {
	meta, err := s.ModelMetadata(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return meta.Version, nil
}

// ModelMetadata returns the metadata of the latest version of name.
func (s *Store) ModelMetadata(ctx context.Context, name string) (ModelMetadata, error) {
	if err := s.check(ctx); err != nil {
		return ModelMetadata{}, err
	}
	var meta ModelMetadata
	err := s.db.View(func(txn *badger.Txn) error {
		m, err := readMeta(txn, name)
		meta = m
		return err
	})
	return meta, err
}

// PutJSON stores v under name.
func (s *Store) PutJSON(ctx context.Context, name string, v interface{}) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(name), b)
	})
}

// GetJSON decodes the value stored under name into dst. ErrNotFound is
// returned for missing keys.
func (s *Store) GetJSON(ctx context.Context, name string, dst interface{}) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	var b []byte
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		b, err = readValue(txn, docKey(name))
		return err
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func readMeta(txn *badger.Txn, name string) (ModelMetadata, error) {
	var meta ModelMetadata
	b, err := readValue(txn, modelMetaKey(name))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, fmt.Errorf("decode metadata for %s: %w", name, err)
	}
	return meta, nil
}

func readValue(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
