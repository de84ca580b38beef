// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/platepicker/internal/recommend/algorithms"
)

// Model store record names.
const (
	ModelCF   = "cf_als"
	DocCFMeta = "cf_meta"
	DocBandit = "bandit"
)

// Config contains the pipeline settings.
type Config struct {
	// TopK is the default number of restaurants returned.
	TopK int `json:"top_k"`

	// CandidatePool bounds the heuristic stage. 0 keeps every candidate.
	CandidatePool int `json:"candidate_pool"`

	// RetrainThreshold is the number of new positive interactions that
	// triggers a background ALS run.
	RetrainThreshold int `json:"retrain_threshold"`

	// TrainTimeout bounds a single training run.
	TrainTimeout time.Duration `json:"train_timeout"`

	// ALS holds the factorization hyperparameters.
	ALS algorithms.ALSConfig `json:"als"`

	// BanditAlpha is the LinUCB exploration weight.
	BanditAlpha float64 `json:"bandit_alpha"`

	// BanditPersist writes bandit state to the model store after updates.
	BanditPersist bool `json:"bandit_persist"`

	// FeatureCacheSize and FeatureCacheTTL bound the served-feature cache
	// used to credit later feedback to the bandit.
	FeatureCacheSize int           `json:"feature_cache_size"`
	FeatureCacheTTL  time.Duration `json:"feature_cache_ttl"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		TopK:             5,
		CandidatePool:    50,
		RetrainThreshold: 10,
		TrainTimeout:     30 * time.Minute,
		ALS:              algorithms.DefaultALSConfig(),
		BanditAlpha:      1.0,
		BanditPersist:    true,
		FeatureCacheSize: 10000,
		FeatureCacheTTL:  24 * time.Hour,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.CandidatePool < 0 {
		return fmt.Errorf("candidate_pool must be non-negative, got %d", c.CandidatePool)
	}
	if c.RetrainThreshold < 1 {
		return fmt.Errorf("retrain_threshold must be at least 1, got %d", c.RetrainThreshold)
	}
	if c.TrainTimeout <= 0 {
		return fmt.Errorf("train_timeout must be positive, got %s", c.TrainTimeout)
	}
	if c.BanditAlpha < 0 {
		return fmt.Errorf("bandit_alpha must be non-negative, got %f", c.BanditAlpha)
	}
	if c.ALS.NumFactors < 1 {
		return fmt.Errorf("als.factors must be positive, got %d", c.ALS.NumFactors)
	}
	if c.ALS.NumIterations < 1 {
		return fmt.Errorf("als.iterations must be positive, got %d", c.ALS.NumIterations)
	}
	if c.ALS.Regularization < 0 {
		return fmt.Errorf("als.regularization must be non-negative, got %f", c.ALS.Regularization)
	}
	if c.ALS.Alpha < 0 {
		return fmt.Errorf("als.alpha must be non-negative, got %f", c.ALS.Alpha)
	}
	return nil
}
