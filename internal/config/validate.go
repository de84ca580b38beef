// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMissingAPIKey is returned by RequireLLM when OPENAI_API_KEY is unset.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is required")

// minJWTSecretLength applies in production only.
const minJWTSecretLength = 32

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateMongo(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

// RequireLLM reports whether the LLM settings allow outbound calls. The
// server, ingestion and ask commands call it; offline tools do not.
func (c *Config) RequireLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.LLM.ChatModel == "" || c.LLM.EmbeddingModel == "" {
		return fmt.Errorf("OPENAI_CHAT_MODEL and OPENAI_EMBEDDING_MODEL must not be empty")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateMongo() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	u, err := url.Parse(c.Mongo.URI)
	if err != nil || (u.Scheme != "mongodb" && u.Scheme != "mongodb+srv") {
		return fmt.Errorf("MONGODB_URI must use the mongodb:// or mongodb+srv:// scheme")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGODB_DB is required")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.TopK < 1 {
		return fmt.Errorf("RECOMMEND_TOP_K must be at least 1, got %d", r.TopK)
	}
	if r.CandidatePool < 0 {
		return fmt.Errorf("RECOMMEND_CANDIDATE_POOL must not be negative")
	}
	if r.RetrainThreshold < 1 {
		return fmt.Errorf("CF_RETRAIN_THRESHOLD must be at least 1, got %d", r.RetrainThreshold)
	}
	if r.ALS.Factors < 1 || r.ALS.Iterations < 1 {
		return fmt.Errorf("CF_ALS_FACTORS and CF_ALS_ITERATIONS must be positive")
	}
	if r.ALS.Regularization < 0 || r.ALS.Alpha < 0 {
		return fmt.Errorf("CF_ALS_REGULARIZATION and CF_ALS_ALPHA must not be negative")
	}
	if r.Bandit.Alpha < 0 {
		return fmt.Errorf("BANDIT_ALPHA must not be negative, got %v", r.Bandit.Alpha)
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case "memory":
		return nil
	case "nats":
		if !c.Events.NATSEmbedded && c.Events.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND=nats without NATS_EMBEDDED")
		}
		return nil
	default:
		return fmt.Errorf("EVENTS_BACKEND must be memory or nats, got %q", c.Events.Backend)
	}
}

func (c *Config) validateSecurity() error {
	if c.Server.IsProduction() && len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production", minJWTSecretLength)
	}
	if !c.Security.RateLimitDisabled && c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not supported", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
