// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tomtom215/platepicker/internal/recommend/algorithms"
)

func seedLikes(src *fakeSource, n int) {
	for i := 0; i < n; i++ {
		src.add(fmt.Sprintf("u%d", i%4), fmt.Sprintf("r%d", i%7), "like", 1)
	}
}

func TestTrainer_TriggerIfNeeded(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	store := newTestStore(t)
	scorer := NewCFScorer(store)
	trainer := NewTrainer(src, store, scorer, testConfig())

	seedLikes(src, 9)
	if trainer.TriggerIfNeeded(ctx) {
		t.Fatal("9 positives must not trigger with threshold 10")
	}

	seedLikes(src, 3)
	if !trainer.TriggerIfNeeded(ctx) {
		t.Fatal("12 positives must trigger")
	}
	trainer.Wait()

	if !scorer.Available() {
		t.Fatal("scorer should hold the new model")
	}
	mark, err := trainer.Watermark(ctx)
	if err != nil || mark != 12 {
		t.Fatalf("Watermark() = %d, %v; want 12", mark, err)
	}

	seedLikes(src, 5)
	if trainer.TriggerIfNeeded(ctx) {
		t.Error("5 new positives since the watermark must not trigger")
	}
}

func TestTrainer_ShrunkenLogResetsWatermark(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	store := newTestStore(t)
	trainer := NewTrainer(src, store, nil, testConfig())

	if err := store.PutJSON(ctx, DocCFMeta, CFMeta{TrainedPosCount: 500}); err != nil {
		t.Fatal(err)
	}
	seedLikes(src, 10)
	if !trainer.TriggerIfNeeded(ctx) {
		t.Fatal("positives below the watermark should reset it to 0 and trigger")
	}
	trainer.Wait()
}

func TestTrainer_CountErrorIsSwallowed(t *testing.T) {
	src := &fakeSource{err: errors.New("mongo unreachable")}
	trainer := NewTrainer(src, newTestStore(t), nil, testConfig())
	if trainer.TriggerIfNeeded(context.Background()) {
		t.Error("trigger must not start when counting fails")
	}
}

func TestTrainer_Train(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	store := newTestStore(t)
	trainer := NewTrainer(src, store, nil, testConfig())

	if _, err := trainer.Train(ctx); !errors.Is(err, algorithms.ErrNoPositivePairs) {
		t.Fatalf("Train() on empty log error = %v, want ErrNoPositivePairs", err)
	}

	seedLikes(src, 20)
	src.add("u9", "r1", "dislike", -0.5)
	meta, err := trainer.Train(ctx)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if meta.Version != 1 || meta.UserCount != 4 || meta.ItemCount != 7 || meta.InteractionCount != 21 {
		t.Errorf("meta = %+v", meta)
	}

	meta, err = trainer.Train(ctx)
	if err != nil || meta.Version != 2 {
		t.Errorf("second Train() = v%d, %v", meta.Version, err)
	}
}

func TestTrainer_SingleFlight(t *testing.T) {
	trainer := NewTrainer(&fakeSource{}, newTestStore(t), nil, testConfig())
	trainer.running.Store(true)

	if _, err := trainer.Train(context.Background()); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("Train() error = %v, want ErrTrainingInProgress", err)
	}
	if trainer.Start() {
		t.Error("Start() must refuse while a run is active")
	}
	trainer.running.Store(false)
}
