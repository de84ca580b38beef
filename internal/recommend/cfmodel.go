// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/metrics"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/recommend/algorithms"
	"github.com/tomtom215/platepicker/internal/recommend/storage"
)

// ErrModelNotFound is returned when no trained CF snapshot is loaded.
var ErrModelNotFound = errors.New("recommend: no trained CF model")

type cfSnapshot struct {
	model *algorithms.FactorModel
	meta  storage.ModelMetadata
}

// CFScorer serves the latest trained ALS snapshot. Readers load the current
// snapshot through an atomic pointer and never block on a reload.
type CFScorer struct {
	store    ModelStore
	current  atomic.Pointer[cfSnapshot]
	reloadMu sync.Mutex
	logger   zerolog.Logger
}

// NewCFScorer creates a scorer backed by store. Nothing is loaded until
// Refresh is called.
func NewCFScorer(store ModelStore) *CFScorer {
	return &CFScorer{
		store:  store,
		logger: logging.WithComponent("cf_model"),
	}
}

// Available reports whether a snapshot is loaded.
func (s *CFScorer) Available() bool {
	return s.current.Load() != nil
}

// Metadata returns the metadata of the loaded snapshot.
func (s *CFScorer) Metadata() (storage.ModelMetadata, error) {
	snap := s.current.Load()
	if snap == nil {
		return storage.ModelMetadata{}, ErrModelNotFound
	}
	return snap.meta, nil
}

// Refresh reloads the snapshot when the stored version differs from the
// loaded one. A store without a model leaves the scorer unavailable.
func (s *CFScorer) Refresh(ctx context.Context) error {
	version, err := s.store.ModelVersion(ctx, ModelCF)
	if err != nil {
		return fmt.Errorf("read cf model version: %w", err)
	}
	if version == 0 {
		return nil
	}
	if snap := s.current.Load(); snap != nil && snap.meta.Version == version {
		return nil
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if snap := s.current.Load(); snap != nil && snap.meta.Version == version {
		return nil
	}

	var model algorithms.FactorModel
	meta, err := s.store.LoadModel(ctx, ModelCF, &model)
	if err != nil {
		return fmt.Errorf("load cf model: %w", err)
	}
	s.Set(&model, meta)
	return nil
}

// Set installs a snapshot directly. Used by the trainer after a run.
func (s *CFScorer) Set(model *algorithms.FactorModel, meta storage.ModelMetadata) {
	s.current.Store(&cfSnapshot{model: model, meta: meta})
	metrics.CFModelVersion.Set(float64(meta.Version))
	s.logger.Info().
		Int("version", meta.Version).
		Int("users", len(model.UserIndex)).
		Int("items", len(model.ItemIndex)).
		Msg("CF model loaded")
}

// Score returns the predicted preference of user for item, 0 when no model
// is loaded or either id is unknown.
func (s *CFScorer) Score(userID, itemID string) float64 {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return snap.model.Score(userID, itemID)
}

// Rerank attaches CFScore to every candidate, sorts descending and
// truncates to topK. Candidates are keyed by restaurant id, else url.
func (s *CFScorer) Rerank(userID string, candidates []models.Candidate, topK int) []models.Candidate {
	snap := s.current.Load()

	out := make([]models.Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		key := out[i].RestaurantID
		if key == "" {
			key = out[i].URL
		}
		var score float64
		if snap != nil {
			score = snap.model.Score(userID, key)
		}
		out[i].CFScore = &score
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CF() > out[j].CF() })
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
