// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package app assembles PlatePicker's components from configuration.
//
// Both binaries build on it: cmd/server runs the full HTTP service, while
// platectl opens only the pieces a command needs (the ask command needs the
// pipeline but no HTTP server, train-cf needs MongoDB and the model store
// but no LLM).
//
// Initialization order:
//
//  1. MongoDB (users and the interaction log)
//  2. Model store (BadgerDB, CF factors and bandit state)
//  3. LLM client and vector store
//  4. Recommendation engine, trainer and bandit
//  5. Event bus and the interaction recorder
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/platepicker/internal/auth"
	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/database"
	"github.com/tomtom215/platepicker/internal/events"
	"github.com/tomtom215/platepicker/internal/llm"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/parser"
	"github.com/tomtom215/platepicker/internal/recommend"
	"github.com/tomtom215/platepicker/internal/recommend/algorithms"
	"github.com/tomtom215/platepicker/internal/recommend/storage"
	"github.com/tomtom215/platepicker/internal/retrieval"
	"github.com/tomtom215/platepicker/internal/tracking"
	"github.com/tomtom215/platepicker/internal/vectorstore"
)

// App holds the long-lived components. Models, Scorer and Trainer are nil
// when recommend.model_path is empty, which disables collaborative
// filtering.
type App struct {
	Config   *config.Config
	DB       *database.DB
	Models   *storage.Store
	LLM      *llm.Client
	Vectors  *vectorstore.Store
	Engine   *recommend.Engine
	Scorer   *recommend.CFScorer
	Trainer  *recommend.Trainer
	Bus      *events.Bus
	Recorder *tracking.Recorder
	Accounts *auth.Service

	closers []func() error
}

// New builds every component. On error, whatever was opened is closed.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	a := &App{Config: cfg}
	if err := a.open(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) open(ctx context.Context) error {
	cfg := a.Config
	var err error

	if a.DB, err = OpenDatabase(ctx, cfg); err != nil {
		return err
	}
	a.onClose(func() error { return a.DB.Close(context.Background()) })

	if a.Models, err = OpenModelStore(cfg); err != nil {
		return err
	}
	if a.Models != nil {
		a.onClose(a.Models.Close)
	}

	if a.LLM, err = llm.New(&cfg.LLM); err != nil {
		return err
	}
	if a.Vectors, err = vectorstore.Open(&cfg.VectorStore, a.LLM.EmbeddingFunc()); err != nil {
		return err
	}
	if err = a.initRecommend(ctx); err != nil {
		return err
	}

	if a.Bus, err = events.NewBus(&cfg.Events); err != nil {
		return err
	}
	a.onClose(a.Bus.Close)
	logging.Info().Str("backend", a.Bus.Backend()).Msg("Event bus ready")

	a.Recorder = tracking.NewRecorder(a.DB.Interactions(), a.Bus)
	a.Accounts = auth.NewService(a.DB.Users())
	return nil
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases components in reverse order of opening. It waits for a
// background training run so the model store is not closed under it.
func (a *App) Close() error {
	if a.Trainer != nil {
		a.Trainer.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) initRecommend(ctx context.Context) error {
	cfg := a.Config
	rcfg := EngineConfig(cfg)

	var modelStore recommend.ModelStore
	if a.Models != nil {
		modelStore = a.Models
		a.Scorer = recommend.NewCFScorer(a.Models)
		if err := a.Scorer.Refresh(ctx); err != nil {
			logging.Warn().Err(err).Msg("Stored CF model not loaded, serving without it")
		}
		a.Trainer = recommend.NewTrainer(a.DB.Interactions(), a.Models, a.Scorer, rcfg)
	} else {
		logging.Info().Msg("No model store (RECOMMEND_MODEL_PATH is empty), using online CF only")
	}

	deps := recommend.Deps{
		Parser:    parser.New(a.LLM),
		Retriever: retrieval.New(a.Vectors),
		Bandit:    recommend.NewBandit(ctx, modelStore, rcfg),
		Source:    a.DB.Interactions(),
	}
	if a.Trainer != nil {
		deps.Scorer = a.Scorer
		deps.Trainer = a.Trainer
	}

	engine, err := recommend.NewEngine(rcfg, deps)
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}
	a.Engine = engine

	logging.Info().
		Int("top_k", rcfg.TopK).
		Int("candidate_pool", rcfg.CandidatePool).
		Int("retrain_threshold", rcfg.RetrainThreshold).
		Bool("cf_trained_model", a.Trainer != nil).
		Msg("Recommendation engine initialized")
	return nil
}

// OpenDatabase connects to MongoDB and ensures the indexes exist.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.Connect(ctx, &cfg.Mongo)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(context.Background())
		return nil, err
	}
	logging.Info().Str("database", cfg.Mongo.Database).Msg("MongoDB connected")
	return db, nil
}

// OpenModelStore opens the BadgerDB model store, or returns nil when
// recommend.model_path is empty.
func OpenModelStore(cfg *config.Config) (*storage.Store, error) {
	if cfg.Recommend.ModelPath == "" {
		return nil, nil
	}
	store, err := storage.Open(cfg.Recommend.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	return store, nil
}

// EngineConfig maps the recommend section onto the pipeline settings.
func EngineConfig(cfg *config.Config) *recommend.Config {
	r := cfg.Recommend
	return &recommend.Config{
		TopK:             r.TopK,
		CandidatePool:    r.CandidatePool,
		RetrainThreshold: r.RetrainThreshold,
		TrainTimeout:     r.TrainTimeout,
		ALS: algorithms.ALSConfig{
			NumFactors:     r.ALS.Factors,
			NumIterations:  r.ALS.Iterations,
			Regularization: r.ALS.Regularization,
			Alpha:          r.ALS.Alpha,
			NumWorkers:     r.ALS.NumWorkers,
		},
		BanditAlpha:      r.Bandit.Alpha,
		BanditPersist:    r.Bandit.Persist,
		FeatureCacheSize: r.FeatureCacheSize,
		FeatureCacheTTL:  r.FeatureCacheTTL,
	}
}
