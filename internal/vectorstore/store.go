// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package vectorstore keeps restaurant embeddings in a persistent chromem-go
// database. Ingestion writes documents; retrieval runs semantic searches.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	chromem "github.com/philippgille/chromem-go"

	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/logging"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("vectorstore: document not found")

// Document is a restaurant text block with flat string metadata.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Result is a search hit. Similarity is the cosine similarity to the query.
type Result struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// Store wraps one chromem collection.
type Store struct {
	db          *chromem.DB
	collection  *chromem.Collection
	concurrency int
}

// Open opens or creates the persistent collection described by cfg.
func Open(cfg *config.VectorStoreConfig, embed chromem.EmbeddingFunc) (*Store, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("open vector store %s: %w", cfg.Path, err)
	}
	s, err := newStore(db, cfg.Collection, embed)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("path", cfg.Path).
		Str("collection", cfg.Collection).
		Int("documents", s.Count()).
		Msg("Vector store opened")
	return s, nil
}

// OpenInMemory creates a non-persistent collection.
func OpenInMemory(collection string, embed chromem.EmbeddingFunc) (*Store, error) {
	return newStore(chromem.NewDB(), collection, embed)
}

func newStore(db *chromem.DB, name string, embed chromem.EmbeddingFunc) (*Store, error) {
	col, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", name, err)
	}
	return &Store{db: db, collection: col, concurrency: runtime.NumCPU()}, nil
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Upsert embeds and stores docs. Existing ids are overwritten.
func (s *Store) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	cdocs := make([]chromem.Document, len(docs))
	for i, d := range docs {
		cdocs[i] = chromem.Document{ID: d.ID, Content: d.Content, Metadata: d.Metadata}
	}
	if err := s.collection.AddDocuments(ctx, cdocs, s.concurrency); err != nil {
		return fmt.Errorf("add %d documents: %w", len(docs), err)
	}
	return nil
}

// Search returns up to n documents ordered by similarity to query. n is
// clamped to the collection size and n <= 0 returns the whole collection.
// An empty collection yields no results.
func (s *Store) Search(ctx context.Context, query string, n int) ([]Result, error) {
	total := s.collection.Count()
	if total == 0 {
		return nil, nil
	}
	if n <= 0 || n > total {
		n = total
	}

	hits, err := s.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	out := make([]Result, len(hits))
	for i, h := range hits {
		out[i] = Result{ID: h.ID, Content: h.Content, Metadata: h.Metadata, Similarity: h.Similarity}
	}
	return out, nil
}

// Get returns the document with id.
func (s *Store) Get(ctx context.Context, id string) (Result, error) {
	doc, err := s.collection.GetByID(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return Result{ID: doc.ID, Content: doc.Content, Metadata: doc.Metadata}, nil
}
