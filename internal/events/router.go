// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/logging"
)

// RouterConfig holds Watermill router settings.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
}

// RouterConfigFrom maps the events section onto RouterConfig.
func RouterConfigFrom(cfg *config.EventsConfig) RouterConfig {
	return RouterConfig{
		CloseTimeout:         cfg.CloseTimeout,
		RetryMaxRetries:      cfg.RetryCount,
		RetryInitialInterval: cfg.RetryInterval,
	}
}

type handlerSpec struct {
	name    string
	topic   string
	handler message.NoPublishHandlerFunc
}

// Router consumes events with the registered handlers. Each Serve call
// builds a fresh Watermill router, so the supervisor can restart it.
type Router struct {
	subscriber message.Subscriber
	config     RouterConfig
	logger     watermill.LoggerAdapter

	mu       sync.Mutex
	handlers []handlerSpec
	ready    chan struct{}
	once     sync.Once
}

// NewRouter creates a Router reading from subscriber.
func NewRouter(subscriber message.Subscriber, cfg RouterConfig) *Router {
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 10 * time.Second
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 100 * time.Millisecond
	}
	return &Router{
		subscriber: subscriber,
		config:     cfg,
		logger:     logging.NewWatermillAdapter(),
		ready:      make(chan struct{}),
	}
}

// AddConsumerHandler registers handler for topic. Registrations take effect
// on the next Serve.
func (r *Router) AddConsumerHandler(name, topic string, handler message.NoPublishHandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handlerSpec{name: name, topic: topic, handler: handler})
}

// Running is closed once the first run is consuming.
func (r *Router) Running() <-chan struct{} {
	return r.ready
}

func (r *Router) build() (*message.Router, error) {
	wm, err := message.NewRouter(message.RouterConfig{CloseTimeout: r.config.CloseTimeout}, r.logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Outer to inner: panics become errors, errors are retried.
	wm.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      r.config.RetryMaxRetries,
		InitialInterval: r.config.RetryInitialInterval,
		MaxInterval:     10 * r.config.RetryInitialInterval,
		Multiplier:      2,
		Logger:          r.logger,
	}
	wm.AddMiddleware(retry.Middleware)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.handlers {
		wm.AddConsumerHandler(h.name, h.topic, r.subscriber, h.handler)
	}
	return wm, nil
}

// Serve implements suture.Service. It blocks until ctx is canceled.
func (r *Router) Serve(ctx context.Context) error {
	wm, err := r.build()
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-wm.Running():
			r.once.Do(func() { close(r.ready) })
		case <-ctx.Done():
		}
	}()

	if err := wm.Run(ctx); err != nil {
		return fmt.Errorf("event router stopped: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (r *Router) String() string {
	return "event-router"
}
