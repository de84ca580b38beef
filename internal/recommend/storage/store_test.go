// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
)

type testModel struct {
	Factors [][]float64       `json:"factors"`
	Index   map[string]int    `json:"index"`
	Tags    map[string]string `json:"tags"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadModel(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in := testModel{Factors: [][]float64{{0.1, 0.2}}, Index: map[string]int{"u1": 0}}
	meta, err := s.SaveModel(ctx, "cf", in, ModelMetadata{UserCount: 1, ItemCount: 1})
	if err != nil {
		t.Fatalf("SaveModel() error = %v", err)
	}
	if meta.Version != 1 || meta.Checksum == "" || meta.SizeBytes == 0 {
		t.Errorf("unexpected metadata %+v", meta)
	}

	var out testModel
	got, err := s.LoadModel(ctx, "cf", &out)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	if got.Version != 1 || out.Index["u1"] != 0 || out.Factors[0][1] != 0.2 {
		t.Errorf("loaded %+v / %+v", got, out)
	}
}

func TestSaveModel_IncrementsVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if v, err := s.ModelVersion(ctx, "cf"); err != nil || v != 0 {
		t.Fatalf("ModelVersion() on empty store = %d, %v", v, err)
	}
	for i := 1; i <= 3; i++ {
		if _, err := s.SaveModel(ctx, "cf", testModel{}, ModelMetadata{}); err != nil {
			t.Fatal(err)
		}
		if v, _ := s.ModelVersion(ctx, "cf"); v != i {
			t.Errorf("version after save %d = %d", i, v)
		}
	}
}

func TestLoadModel_NotFound(t *testing.T) {
	s := newTestStore(t)
	var out testModel
	if _, err := s.LoadModel(context.Background(), "missing", &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadModel() error = %v, want ErrNotFound", err)
	}
}

func TestLoadModel_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if _, err := s.SaveModel(ctx, "cf", testModel{Tags: map[string]string{"a": "b"}}, ModelMetadata{}); err != nil {
		t.Fatal(err)
	}
	// Corrupt the payload behind the store's back.
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(modelDataKey("cf"), []byte(`{"tags":{"a":"c"}}`))
	})
	if err != nil {
		t.Fatal(err)
	}

	var out testModel
	if _, err := s.LoadModel(ctx, "cf", &out); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("LoadModel() error = %v, want ErrChecksumMismatch", err)
	}
}

func TestJSONDocuments(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	type watermark struct {
		TrainedPosCount int64 `json:"trained_pos_count"`
	}
	var w watermark
	if err := s.GetJSON(ctx, "cf_meta", &w); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetJSON() on missing key = %v", err)
	}
	if err := s.PutJSON(ctx, "cf_meta", watermark{TrainedPosCount: 42}); err != nil {
		t.Fatal(err)
	}
	if err := s.GetJSON(ctx, "cf_meta", &w); err != nil || w.TrainedPosCount != 42 {
		t.Errorf("GetJSON() = %+v, %v", w, err)
	}
}

func TestClosedStore(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.PutJSON(context.Background(), "x", 1); !errors.Is(err, ErrClosed) {
		t.Errorf("PutJSON() after Close = %v, want ErrClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}
