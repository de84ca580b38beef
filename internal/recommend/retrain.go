// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/metrics"
	"github.com/tomtom215/platepicker/internal/recommend/algorithms"
	"github.com/tomtom215/platepicker/internal/recommend/storage"
)

// ErrTrainingInProgress is returned when a run is already active.
var ErrTrainingInProgress = errors.New("recommend: training already in progress")

// Trainer fits the ALS model from the interaction log and publishes the
// snapshot to the model store and the scorer. At most one run is active.
type Trainer struct {
	source InteractionSource
	store  ModelStore
	scorer *CFScorer
	cfg    *Config

	running atomic.Bool
	wg      sync.WaitGroup
	logger  zerolog.Logger
}

// NewTrainer creates a trainer. scorer may be nil for offline training.
func NewTrainer(source InteractionSource, store ModelStore, scorer *CFScorer, cfg *Config) *Trainer {
	return &Trainer{
		source: source,
		store:  store,
		scorer: scorer,
		cfg:    cfg,
		logger: logging.WithComponent("retrain"),
	}
}

// Running reports whether a training run is active.
func (t *Trainer) Running() bool {
	return t.running.Load()
}

// Wait blocks until background runs started by this trainer finish.
func (t *Trainer) Wait() {
	t.wg.Wait()
}

// Watermark returns the positive count recorded by the last successful run.
func (t *Trainer) Watermark(ctx context.Context) (int64, error) {
	var meta CFMeta
	err := t.store.GetJSON(ctx, DocCFMeta, &meta)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cf meta: %w", err)
	}
	return meta.TrainedPosCount, nil
}

// TriggerIfNeeded starts a background run when at least RetrainThreshold
// positive interactions arrived since the last run. A shrunken log resets
// the watermark. Errors are logged, never returned, and the call does not
// block on training. It reports whether a run was started.
func (t *Trainer) TriggerIfNeeded(ctx context.Context) bool {
	log := logging.Ctx(ctx).With().Str("component", "retrain").Logger()

	pos, err := t.source.CountPositive(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Retrain check skipped: count positives failed")
		return false
	}
	last, err := t.Watermark(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Retrain check skipped")
		return false
	}
	if pos < last {
		last = 0
	}
	if pos-last < int64(t.cfg.RetrainThreshold) {
		return false
	}

	started := t.Start()
	if started {
		log.Info().Int64("positives", pos).Int64("watermark", last).Msg("Background retrain started")
	} else {
		metrics.CFRetrainTotal.WithLabelValues("busy").Inc()
	}
	return started
}

// Start launches a background run detached from any request. It reports
// false when a run is already active.
func (t *Trainer) Start() bool {
	if !t.running.CompareAndSwap(false, true) {
		return false
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer t.running.Store(false)

		ctx, cancel := context.WithTimeout(logging.ContextWithNewCorrelationID(context.Background()), t.cfg.TrainTimeout)
		defer cancel()
		if _, err := t.train(ctx); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("component", "retrain").Msg("Background retrain failed")
		}
	}()
	return true
}

// Train runs synchronously. ErrTrainingInProgress is returned when another
// run holds the guard.
func (t *Trainer) Train(ctx context.Context) (storage.ModelMetadata, error) {
	if !t.running.CompareAndSwap(false, true) {
		return storage.ModelMetadata{}, ErrTrainingInProgress
	}
	defer t.running.Store(false)
	return t.train(ctx)
}

func (t *Trainer) train(ctx context.Context) (meta storage.ModelMetadata, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordRetrain(time.Since(start), meta.Version, err)
	}()

	pos, err := t.source.CountPositive(ctx)
	if err != nil {
		return meta, fmt.Errorf("count positives: %w", err)
	}
	logs, err := t.source.All(ctx)
	if err != nil {
		return meta, fmt.Errorf("load interactions: %w", err)
	}
	feedback, err := algorithms.AggregateImplicit(logs)
	if err != nil {
		return meta, err
	}

	als := algorithms.NewALS(t.cfg.ALS)
	model, err := als.Train(ctx, feedback)
	if err != nil {
		return meta, fmt.Errorf("train als: %w", err)
	}

	meta, err = t.store.SaveModel(ctx, ModelCF, model, storage.ModelMetadata{
		TrainedAt:          time.Now().UTC(),
		InteractionCount:   len(logs),
		UserCount:          len(model.UserIndex),
		ItemCount:          len(model.ItemIndex),
		TrainingDurationMS: time.Since(start).Milliseconds(),
	})
	if err != nil {
		return meta, fmt.Errorf("save cf model: %w", err)
	}
	if err := t.store.PutJSON(ctx, DocCFMeta, CFMeta{TrainedPosCount: pos}); err != nil {
		return meta, fmt.Errorf("save cf meta: %w", err)
	}
	if t.scorer != nil {
		t.scorer.Set(model, meta)
	}

	logging.Ctx(ctx).Info().
		Str("component", "retrain").
		Int("version", meta.Version).
		Int("pairs", len(feedback)).
		Int("factors", als.Config().NumFactors).
		Int("workers", als.Config().NumWorkers).
		Int("users", meta.UserCount).
		Int("items", meta.ItemCount).
		Int64("positives", pos).
		Dur("duration", time.Since(start)).
		Msg("CF model trained")
	return meta, nil
}
