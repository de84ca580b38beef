// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/metrics"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/recommend/algorithms"
	"github.com/tomtom215/platepicker/internal/recommend/reranking"
)

// CF sources reported in metrics and logs.
const (
	cfSourceNone   = "none"
	cfSourceModel  = "model"
	cfSourceOnline = "online"
)

// Engine runs the recommendation pipeline. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	parser    Parser
	retriever Retriever
	heuristic *reranking.Heuristic
	source    InteractionSource
	scorer    *CFScorer
	trainer   *Trainer
	bandit    *Bandit
}

// Deps are the collaborators of an Engine. Scorer and Trainer may be nil,
// leaving online CF over Source. Without Source as well, the collaborative
// filtering stage only truncates.
type Deps struct {
	Parser    Parser
	Retriever Retriever
	Source    InteractionSource
	Scorer    *CFScorer
	Trainer   *Trainer
	Bandit    *Bandit
}

// NewEngine creates a pipeline from cfg and deps.
func NewEngine(cfg *Config, deps Deps) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Parser == nil || deps.Retriever == nil {
		return nil, errors.New("recommend: parser and retriever are required")
	}
	if deps.Bandit == nil {
		deps.Bandit = NewBandit(context.Background(), nil, cfg)
	}

	return &Engine{
		config:    cfg,
		logger:    logging.WithComponent("recommend"),
		parser:    deps.Parser,
		retriever: deps.Retriever,
		heuristic: reranking.NewHeuristic(),
		source:    deps.Source,
		scorer:    deps.Scorer,
		trainer:   deps.Trainer,
		bandit:    deps.Bandit,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Bandit returns the shared bandit, which receives tracked feedback.
func (e *Engine) Bandit() *Bandit {
	return e.bandit
}

// Run executes parse, retrain check, retrieval, heuristic pre-rank, CF
// rerank (for a known user), bandit rerank and answer formatting.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	cfSource := cfSourceNone

	res, err := e.run(ctx, req, &cfSource)
	metrics.RecordRecommendation(cfSource, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("component", "recommend").
		Str("intent", res.Parsed.Intent).
		Strs("cuisine", res.Parsed.Cuisine).
		Str("cf_source", cfSource).
		Int("results", len(res.Restaurants)).
		Dur("duration", time.Since(start)).
		Msg("Recommendation served")
	return res, nil
}

func (e *Engine) run(ctx context.Context, req Request, cfSource *string) (*Result, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = e.config.TopK
	}
	userID := strings.TrimSpace(req.UserID)

	parsed, err := e.parser.Parse(ctx, req.Message, req.Lat, req.Lng)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	if e.trainer != nil {
		e.trainer.TriggerIfNeeded(ctx)
	}

	candidates, err := e.retriever.Retrieve(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	metrics.RecordStage("retrieved", len(candidates))

	candidates = e.heuristic.Rerank(candidates, parsed, e.config.CandidatePool)
	metrics.RecordStage("heuristic", len(candidates))

	if userID != "" {
		candidates, *cfSource = e.collaborative(ctx, userID, candidates, topK)
		metrics.RecordStage("cf", len(candidates))
	}

	candidates = e.bandit.Rerank(userID, candidates, parsed, topK)
	metrics.RecordStage("bandit", len(candidates))

	return &Result{
		Parsed:      parsed,
		Restaurants: candidates,
		Answer:      FormatAnswer(candidates),
	}, nil
}

// collaborative prefers the trained snapshot and falls back to online CF.
// Failures degrade to the incoming order truncated to topK.
func (e *Engine) collaborative(ctx context.Context, userID string, candidates []models.Candidate, topK int) ([]models.Candidate, string) {
	if e.scorer != nil {
		if err := e.scorer.Refresh(ctx); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("component", "recommend").Msg("CF model refresh failed")
		}
		if e.scorer.Available() {
			return e.scorer.Rerank(userID, candidates, topK), cfSourceModel
		}
	}

	if e.source == nil {
		return truncate(candidates, topK), cfSourceNone
	}
	logs, err := e.source.Positive(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("component", "recommend").Msg("Online CF unavailable")
		return truncate(candidates, topK), cfSourceNone
	}
	cf := algorithms.NewOnlineCF(positiveFeedback(logs))
	return cf.Rerank(userID, candidates, topK), cfSourceOnline
}

func positiveFeedback(logs []models.Interaction) []algorithms.Feedback {
	fb := make([]algorithms.Feedback, 0, len(logs))
	for i := range logs {
		if logs[i].Reward <= 0 {
			continue
		}
		fb = append(fb, algorithms.Feedback{
			UserID: logs[i].UserID,
			ItemID: logs[i].RestaurantID,
			Reward: logs[i].Reward,
		})
	}
	return fb
}

func truncate(c []models.Candidate, k int) []models.Candidate {
	if k > 0 && len(c) > k {
		return c[:k]
	}
	return c
}
