// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package database

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/platepicker/internal/config"
)

func TestBatchBounds(t *testing.T) {
	tests := []struct {
		n, size int
		want    [][2]int
	}{
		{0, 1000, [][2]int{}},
		{5, 1000, [][2]int{{0, 5}}},
		{2500, 1000, [][2]int{{0, 1000}, {1000, 2000}, {2000, 2500}}},
		{3, 0, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
	}
	for _, tt := range tests {
		if got := batchBounds(tt.n, tt.size); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("batchBounds(%d, %d) = %v, want %v", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := &config.MongoConfig{
		URI:            "mongodb://127.0.0.1:1",
		Database:       "platepicker_test",
		ConnectTimeout: 200 * time.Millisecond,
	}
	_, err := connect(ctx, cfg, connectOptions{maxTries: 2, delay: 10 * time.Millisecond})
	if err == nil {
		t.Fatal("expected error for an unreachable server")
	}
}

func TestConnect_BadURI(t *testing.T) {
	_, err := Connect(context.Background(), &config.MongoConfig{URI: "not-a-uri"})
	if err == nil {
		t.Fatal("expected error for a malformed uri")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("unexpected sentinel: %v", err)
	}
}
