// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/platepicker/internal/breaker"
	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/metrics"
	"github.com/tomtom215/platepicker/internal/models"
)

// Backends.
const (
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// ErrClosed is returned when publishing on a closed bus.
var ErrClosed = errors.New("events: bus is closed")

// Bus owns a publisher/subscriber pair and, for the embedded NATS backend,
// the server behind them.
type Bus struct {
	backend    string
	publisher  message.Publisher
	subscriber message.Subscriber
	embedded   *EmbeddedServer
	cb         *gobreaker.CircuitBreaker[struct{}]
	logger     watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewBus builds the bus selected by cfg.Backend.
func NewBus(cfg *config.EventsConfig) (*Bus, error) {
	b := &Bus{
		backend: cfg.Backend,
		logger:  logging.NewWatermillAdapter(),
		cb: breaker.New[struct{}](breaker.Settings{
			Name:                "events-publish",
			MaxRequests:         1,
			ConsecutiveFailures: 5,
		}),
	}

	switch cfg.Backend {
	case BackendMemory, "":
		b.backend = BackendMemory
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, b.logger)
		b.publisher, b.subscriber = ch, ch
	case BackendNATS:
		if err := b.openNATS(cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
	return b, nil
}

func (b *Bus) openNATS(cfg *config.EventsConfig) error {
	url := cfg.NATSURL
	if cfg.NATSEmbedded {
		srv, err := NewEmbeddedServer(cfg.NATSPort, cfg.NATSStoreDir)
		if err != nil {
			return err
		}
		b.embedded = srv
		url = srv.ClientURL()
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				b.logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			b.logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
	noJetStream := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   noJetStream,
	}, b.logger)
	if err != nil {
		b.shutdownEmbedded()
		return fmt.Errorf("create NATS publisher: %w", err)
	}

	// One subscription per handler without a queue group: every handler
	// sees every event.
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        noJetStream,
	}, b.logger)
	if err != nil {
		_ = pub.Close()
		b.shutdownEmbedded()
		return fmt.Errorf("create NATS subscriber: %w", err)
	}

	b.publisher, b.subscriber = pub, sub
	logging.Info().Str("url", url).Bool("embedded", cfg.NATSEmbedded).Msg("Event bus connected to NATS")
	return nil
}

// Backend returns the active backend name.
func (b *Bus) Backend() string {
	return b.backend
}

// Subscriber returns the subscriber handlers attach to.
func (b *Bus) Subscriber() message.Subscriber {
	return b.subscriber
}

// Publish sends msg on topic through the circuit breaker.
func (b *Bus) Publish(topic string, msg *message.Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	_, err := breaker.Execute(b.cb, func() (struct{}, error) {
		return struct{}{}, b.publisher.Publish(topic, msg)
	})
	metrics.RecordEventPublish(topic, err)
	return err
}

// PublishInteraction implements tracking.Publisher.
func (b *Bus) PublishInteraction(ctx context.Context, it *models.Interaction) error {
	msg, err := NewInteractionEvent(it).Message()
	if err != nil {
		return err
	}
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}
	return b.Publish(TopicInteractionRecorded, msg)
}

// Close stops the publisher, the subscriber and any embedded server.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if b.backend != BackendMemory {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	b.shutdownEmbedded()
	return errors.Join(errs...)
}

func (b *Bus) shutdownEmbedded() {
	if b.embedded != nil {
		b.embedded.Shutdown()
		b.embedded = nil
	}
}
