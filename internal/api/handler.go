// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/platepicker/internal/auth"
	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/recommend"
	"github.com/tomtom215/platepicker/internal/recommend/storage"
	"github.com/tomtom215/platepicker/internal/tracking"
)

// Recommender runs the pipeline. Implemented by *recommend.Engine.
type Recommender interface {
	Run(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// InteractionRecorder logs feedback. Implemented by *tracking.Recorder.
type InteractionRecorder interface {
	Record(ctx context.Context, ev tracking.Event) (*models.Interaction, error)
}

// Accounts registers and authenticates users. Implemented by *auth.Service.
type Accounts interface {
	Register(ctx context.Context, username, password, confirm string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// ModelTrainer starts background CF training. Implemented by *recommend.Trainer.
type ModelTrainer interface {
	Start() bool
	Running() bool
	Watermark(ctx context.Context) (int64, error)
}

// ModelInfo exposes the served CF snapshot. Implemented by *recommend.CFScorer.
type ModelInfo interface {
	Metadata() (storage.ModelMetadata, error)
}

// Pinger checks the document database. Implemented by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of a Handler. Trainer and Model may be nil when
// collaborative filtering is disabled.
type Deps struct {
	Engine   Recommender
	Recorder InteractionRecorder
	Accounts Accounts
	JWT      *auth.JWTManager
	Trainer  ModelTrainer
	Model    ModelInfo
	DB       Pinger
}

// Handler serves pages and JSON endpoints.
type Handler struct {
	cfg       *config.Config
	deps      Deps
	pages     *pageSet
	startTime time.Time
}

// NewHandler parses the embedded templates and validates deps.
func NewHandler(cfg *config.Config, deps Deps) (*Handler, error) {
	if deps.Engine == nil || deps.Recorder == nil || deps.Accounts == nil || deps.JWT == nil {
		return nil, errors.New("api: engine, recorder, accounts and jwt are required")
	}
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Handler{cfg: cfg, deps: deps, pages: pages, startTime: time.Now()}, nil
}

// pipelineTimeout bounds one recommendation request including LLM calls.
const pipelineTimeout = 60 * time.Second
