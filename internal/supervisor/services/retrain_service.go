// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/recommend"
	"github.com/tomtom215/platepicker/internal/recommend/storage"
)

// ModelTrainer is satisfied by *recommend.Trainer.
type ModelTrainer interface {
	Train(ctx context.Context) (storage.ModelMetadata, error)
}

// RetrainServiceConfig controls the periodic CF retrain loop.
type RetrainServiceConfig struct {
	// Interval between scheduled runs. Default: 24h
	Interval time.Duration

	// TrainOnStartup runs once before the first tick.
	TrainOnStartup bool

	// Timeout bounds a single run. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// RetrainService retrains the collaborative filtering model on a schedule.
// Threshold-driven retrains triggered by interactions run independently.
type RetrainService struct {
	trainer ModelTrainer
	config  RetrainServiceConfig
	logger  zerolog.Logger
}

// NewRetrainService wraps trainer.
func NewRetrainService(trainer ModelTrainer, cfg RetrainServiceConfig) *RetrainService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &RetrainService{
		trainer: trainer,
		config:  cfg,
		logger:  logging.WithComponent("retrain-service"),
	}
}

// Serve implements suture.Service. Failed runs are logged and retried on
// the next tick, so the service only returns when ctx ends.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Retrain service starting")

	if s.config.TrainOnStartup {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Retrain service stopping")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *RetrainService) runOnce(ctx context.Context) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	ctx = logging.ContextWithNewCorrelationID(ctx)

	meta, err := s.trainer.Train(ctx)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Msg("Scheduled retrain skipped, run already active")
	case err != nil:
		logging.Ctx(ctx).Warn().Err(err).Msg("Scheduled retrain failed")
	default:
		logging.Ctx(ctx).Info().Int("version", meta.Version).Msg("Scheduled retrain finished")
	}
}

func (s *RetrainService) String() string {
	return "retrain-service"
}
