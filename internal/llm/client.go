// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package llm talks to an OpenAI-compatible provider through langchaingo.
//
// Two operations are used by the rest of the service:
//
//	CompleteJSON  chat completion at temperature 0 in JSON response mode
//	Embed         a single text embedding, also exposed as a
//	              chromem.EmbeddingFunc for the vector store
//
// Chat and embedding calls pass through separate circuit breakers so a
// failing embedding endpoint does not block query parsing.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	chromem "github.com/philippgille/chromem-go"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/tomtom215/platepicker/internal/breaker"
	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/metrics"
)

// ErrEmptyResponse is returned when the provider answers with no choices.
var ErrEmptyResponse = errors.New("llm: empty response")

// Backend is the subset of the langchaingo OpenAI client used here.
type Backend interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
	CreateEmbedding(ctx context.Context, inputTexts []string) ([][]float32, error)
}

// Client wraps a Backend with timeouts, breakers and metrics.
type Client struct {
	backend   Backend
	timeout   time.Duration
	chatCB    *gobreaker.CircuitBreaker[string]
	embedCB   *gobreaker.CircuitBreaker[[]float32]
	chatModel string
}

// New creates a client for cfg. The API key must be set.
func New(cfg *config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, config.ErrMissingAPIKey
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.ChatModel),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	backend, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return NewWithBackend(cfg, backend), nil
}

// NewWithBackend creates a client over an existing backend.
func NewWithBackend(cfg *config.LLMConfig, backend Backend) *Client {
	settings := func(name string) breaker.Settings {
		return breaker.Settings{
			Name:                name,
			MaxRequests:         cfg.BreakerMaxRequests,
			Interval:            cfg.BreakerInterval,
			Timeout:             cfg.BreakerTimeout,
			ConsecutiveFailures: cfg.BreakerFailures,
		}
	}
	return &Client{
		backend:   backend,
		timeout:   cfg.Timeout,
		chatCB:    breaker.New[string](settings("llm-chat")),
		embedCB:   breaker.New[[]float32](settings("llm-embed")),
		chatModel: cfg.ChatModel,
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// CompleteJSON sends a system and a human message and returns the raw
// content of the first choice.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	out, err := breaker.Execute(c.chatCB, func() (string, error) {
		ctx, cancel := c.withTimeout(ctx)
		defer cancel()

		resp, err := c.backend.GenerateContent(ctx,
			[]llms.MessageContent{
				llms.TextParts(llms.ChatMessageTypeSystem, system),
				llms.TextParts(llms.ChatMessageTypeHuman, user),
			},
			llms.WithModel(c.chatModel),
			llms.WithTemperature(0),
			llms.WithJSONMode(),
		)
		if err != nil {
			return "", err
		}
		if resp == nil || len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		return resp.Choices[0].Content, nil
	})
	metrics.RecordLLMCall("chat", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return out, nil
}

// Embed returns the embedding of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := breaker.Execute(c.embedCB, func() ([]float32, error) {
		ctx, cancel := c.withTimeout(ctx)
		defer cancel()

		vecs, err := c.backend.CreateEmbedding(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) == 0 || len(vecs[0]) == 0 {
			return nil, ErrEmptyResponse
		}
		return vecs[0], nil
	})
	metrics.RecordLLMCall("embed", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	return vec, nil
}

// EmbeddingFunc adapts Embed for chromem collections.
func (c *Client) EmbeddingFunc() chromem.EmbeddingFunc {
	return c.Embed
}
