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
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/platepicker/internal/cache"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/metrics"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/recommend/algorithms"
	"github.com/tomtom215/platepicker/internal/recommend/storage"
)

// Bandit wraps the shared LinUCB model with persistence and a cache of the
// feature vectors served to each user, so a later reward can be credited to
// the context it was ranked on.
type Bandit struct {
	model    *algorithms.LinUCB
	store    ModelStore
	persist  bool
	features *cache.LRU[[]float64]

	// persistMu serializes state writes.
	persistMu sync.Mutex
	logger    zerolog.Logger
}

// NewBandit restores the bandit from store when state exists, otherwise
// starts fresh. A corrupt record is logged and replaced on the next update.
func NewBandit(ctx context.Context, store ModelStore, cfg *Config) *Bandit {
	b := &Bandit{
		store:    store,
		persist:  cfg.BanditPersist && store != nil,
		features: cache.NewLRU[[]float64](cfg.FeatureCacheSize, cfg.FeatureCacheTTL),
		logger:   logging.WithComponent("bandit"),
	}

	if b.persist {
		var state algorithms.LinUCBState
		err := store.GetJSON(ctx, DocBandit, &state)
		switch {
		case err == nil:
			state.Alpha = cfg.BanditAlpha
			if m, rerr := algorithms.NewLinUCBFromState(state); rerr == nil {
				b.model = m
				b.logger.Info().Int64("updates", state.Updates).Msg("Bandit state restored")
			} else {
				b.logger.Warn().Err(rerr).Msg("Discarding invalid bandit state")
			}
		case errors.Is(err, storage.ErrNotFound):
		default:
			b.logger.Warn().Err(err).Msg("Failed to read bandit state")
		}
	}
	if b.model == nil {
		b.model = algorithms.NewLinUCB(cfg.BanditAlpha)
	}
	return b
}

func featureKey(userID, restaurantID string) string {
	if userID == "" {
		userID = models.AnonymousUser
	}
	return userID + "|" + restaurantID
}

// Rerank scores candidates, keeps the topK best and remembers the feature
// vector of every returned restaurant for userID.
func (b *Bandit) Rerank(userID string, candidates []models.Candidate, q *models.ParsedQuery, topK int) []models.Candidate {
	ranked := b.model.Rerank(candidates, q, topK)
	out := make([]models.Candidate, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Candidate
		if id := out[i].RestaurantID; id != "" {
			b.features.Add(featureKey(userID, id), ranked[i].Features)
		}
	}
	return out
}

// Feedback folds reward into the model using the features served to
// userID for restaurantID. It reports false when nothing was applied:
// a zero reward or no remembered context.
func (b *Bandit) Feedback(ctx context.Context, userID, restaurantID string, reward float64) (bool, error) {
	if reward == 0 || restaurantID == "" {
		return false, nil
	}
	x, ok := b.features.Get(featureKey(userID, restaurantID))
	if !ok {
		return false, nil
	}

	b.model.Update(x, reward)
	metrics.BanditUpdates.Inc()

	if err := b.save(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (b *Bandit) save(ctx context.Context) error {
	if !b.persist {
		return nil
	}
	b.persistMu.Lock()
	defer b.persistMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := b.store.PutJSON(ctx, DocBandit, b.model.State()); err != nil {
		return fmt.Errorf("persist bandit state: %w", err)
	}
	return nil
}

// State snapshots the model.
func (b *Bandit) State() algorithms.LinUCBState {
	return b.model.State()
}
