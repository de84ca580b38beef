// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/tomtom215/platepicker/internal/breaker"
	"github.com/tomtom215/platepicker/internal/config"
)

type fakeBackend struct {
	mu       sync.Mutex
	content  string
	vector   []float32
	err      error
	messages []llms.MessageContent
	calls    int
}

func (f *fakeBackend) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}

	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	if !opts.JSONMode || opts.Temperature != 0 {
		return nil, errors.New("expected JSON mode at temperature 0")
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.content}}}, nil
}

func (f *fakeBackend) CreateEmbedding(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

func testLLMConfig() *config.LLMConfig {
	return &config.LLMConfig{
		APIKey:          "sk-test",
		ChatModel:       "gpt-4o-mini",
		EmbeddingModel:  "text-embedding-3-small",
		Timeout:         time.Second,
		BreakerTimeout:  time.Minute,
		BreakerFailures: 2,
	}
}

func TestNew_RequiresKey(t *testing.T) {
	cfg := testLLMConfig()
	cfg.APIKey = ""
	if _, err := New(cfg); !errors.Is(err, config.ErrMissingAPIKey) {
		t.Errorf("New() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestCompleteJSON(t *testing.T) {
	fb := &fakeBackend{content: `{"intent":"find_restaurant"}`}
	c := NewWithBackend(testLLMConfig(), fb)

	got, err := c.CompleteJSON(context.Background(), "system prompt", "User input: \"phở\"")
	if err != nil {
		t.Fatalf("CompleteJSON() error = %v", err)
	}
	if got != `{"intent":"find_restaurant"}` {
		t.Errorf("CompleteJSON() = %q", got)
	}
	if len(fb.messages) != 2 {
		t.Fatalf("sent %d messages, want 2", len(fb.messages))
	}
	if fb.messages[0].Role != llms.ChatMessageTypeSystem || fb.messages[1].Role != llms.ChatMessageTypeHuman {
		t.Errorf("roles = %s, %s", fb.messages[0].Role, fb.messages[1].Role)
	}
}

func TestEmbed(t *testing.T) {
	fb := &fakeBackend{vector: []float32{0.6, 0.8}}
	c := NewWithBackend(testLLMConfig(), fb)

	vec, err := c.EmbeddingFunc()(context.Background(), "Mì Quảng")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 2 || vec[1] != 0.8 {
		t.Errorf("Embed() = %v", vec)
	}
}

func TestEmbed_EmptyVector(t *testing.T) {
	c := NewWithBackend(testLLMConfig(), &fakeBackend{})
	if _, err := c.Embed(context.Background(), "x"); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Embed() error = %v, want ErrEmptyResponse", err)
	}
}

func TestBreakerOpens(t *testing.T) {
	fb := &fakeBackend{err: errors.New("502 bad gateway")}
	c := NewWithBackend(testLLMConfig(), fb)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.CompleteJSON(ctx, "s", "u"); err == nil || breaker.IsUnavailable(err) {
			t.Fatalf("call %d: error = %v, want upstream failure", i, err)
		}
	}

	_, err := c.CompleteJSON(ctx, "s", "u")
	if !breaker.IsUnavailable(err) {
		t.Fatalf("error = %v, want open circuit", err)
	}
	if fb.calls != 2 {
		t.Errorf("backend called %d times, want 2", fb.calls)
	}

	// The embedding breaker is independent.
	fb.err = nil
	fb.vector = []float32{1}
	if _, err := c.Embed(ctx, "x"); err != nil {
		t.Errorf("Embed() error = %v with chat breaker open", err)
	}
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	fb := &fakeBackend{err: context.Canceled}
	c := NewWithBackend(testLLMConfig(), fb)

	for i := 0; i < 5; i++ {
		if _, err := c.CompleteJSON(context.Background(), "s", "u"); breaker.IsUnavailable(err) {
			t.Fatalf("breaker opened on cancellation after %d calls", i)
		}
	}
}
