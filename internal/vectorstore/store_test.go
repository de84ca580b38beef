// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package vectorstore

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/tomtom215/platepicker/internal/config"
)

// letterEmbedding is a deterministic bag-of-letters embedding.
func letterEmbedding(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm == 0 {
		v[0] = 1
		return v, nil
	}
	n := float32(math.Sqrt(norm))
	for i := range v {
		v[i] /= n
	}
	return v, nil
}

func testDocs() []Document {
	return []Document{
		{ID: "1", Content: "pizza pizza pizza", Metadata: map[string]string{"name": "Pizza 4P"}},
		{ID: "2", Content: "bun bo hue", Metadata: map[string]string{"name": "Bun Bo"}},
		{ID: "3", Content: "korean bbq", Metadata: map[string]string{"name": "BBQ"}},
	}
}

func TestStore_EmptySearch(t *testing.T) {
	s, err := OpenInMemory("foody_restaurants", letterEmbedding)
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	res, err := s.Search(context.Background(), "pizza", 5)
	if err != nil || len(res) != 0 {
		t.Errorf("Search() on empty store = %v, %v", res, err)
	}
}

func TestStore_UpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	s, err := OpenInMemory("foody_restaurants", letterEmbedding)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, testDocs()); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if s.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", s.Count())
	}

	tests := []struct {
		name  string
		n     int
		count int
	}{
		{"clamped", 10, 3},
		{"whole collection", 0, 3},
		{"limited", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Search(ctx, "pizza", tt.n)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(res) != tt.count {
				t.Fatalf("got %d results, want %d", len(res), tt.count)
			}
			if res[0].ID != "1" || res[0].Metadata["name"] != "Pizza 4P" {
				t.Errorf("top hit = %+v", res[0])
			}
		})
	}
}

func TestStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := OpenInMemory("c", letterEmbedding)
	_ = s.Upsert(ctx, testDocs())
	_ = s.Upsert(ctx, []Document{{ID: "2", Content: "mi quang", Metadata: map[string]string{"name": "Mi Quang"}}})

	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}
	got, err := s.Get(ctx, "2")
	if err != nil || got.Metadata["name"] != "Mi Quang" {
		t.Errorf("Get(2) = %+v, %v", got, err)
	}
	if _, err := s.Get(ctx, "404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(404) error = %v", err)
	}
}

func TestOpen_Persistent(t *testing.T) {
	ctx := context.Background()
	cfg := &config.VectorStoreConfig{Path: t.TempDir(), Collection: "foody_restaurants"}

	s, err := Open(cfg, letterEmbedding)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Upsert(ctx, testDocs()); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(cfg, letterEmbedding)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if reopened.Count() != 3 {
		t.Errorf("reopened Count() = %d, want 3", reopened.Count())
	}
}
