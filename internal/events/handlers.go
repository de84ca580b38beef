// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/metrics"
)

// Handler names.
const (
	HandlerBanditFeedback = "bandit-feedback"
	HandlerRetrainCheck   = "retrain-check"
)

// FeedbackApplier credits a reward to a served bandit context.
type FeedbackApplier interface {
	Feedback(ctx context.Context, userID, restaurantID string, reward float64) (bool, error)
}

// RetrainTrigger starts CF training when enough new positives arrived.
type RetrainTrigger interface {
	TriggerIfNeeded(ctx context.Context) bool
}

// messageContext carries the publisher's correlation id into the handler.
func messageContext(msg *message.Message) context.Context {
	ctx := msg.Context()
	if id := msg.Metadata.Get("correlation_id"); id != "" {
		return logging.ContextWithCorrelationID(ctx, id)
	}
	return logging.ContextWithNewCorrelationID(ctx)
}

// BanditFeedbackHandler applies non-zero rewards to the bandit. Undecodable
// payloads and persistence failures are logged and acknowledged: retrying
// would apply the same update twice.
func BanditFeedbackHandler(bandit FeedbackApplier) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := messageContext(msg)
		ev, err := DecodeInteraction(msg)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Dropping malformed interaction event")
			metrics.RecordEventHandled(HandlerBanditFeedback, err)
			return nil
		}

		it := ev.Interaction
		if it.Reward == 0 {
			return nil
		}
		applied, err := bandit.Feedback(ctx, it.UserID, it.RestaurantID, it.Reward)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("restaurant_id", it.RestaurantID).Msg("Bandit updated but not persisted")
		}
		if applied {
			logging.Ctx(ctx).Debug().
				Str("user_id", it.UserID).
				Str("restaurant_id", it.RestaurantID).
				Float64("reward", it.Reward).
				Msg("Bandit feedback applied")
		}
		metrics.RecordEventHandled(HandlerBanditFeedback, nil)
		return nil
	}
}

// RetrainCheckHandler runs the retrain trigger for positive rewards.
func RetrainCheckHandler(trigger RetrainTrigger) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := messageContext(msg)
		ev, err := DecodeInteraction(msg)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Dropping malformed interaction event")
			metrics.RecordEventHandled(HandlerRetrainCheck, err)
			return nil
		}
		if ev.Interaction.Reward > 0 {
			trigger.TriggerIfNeeded(ctx)
		}
		metrics.RecordEventHandled(HandlerRetrainCheck, nil)
		return nil
	}
}

// Register wires the standard handlers onto r. Either dependency may be nil
// to skip its handler.
func Register(r *Router, bandit FeedbackApplier, trigger RetrainTrigger) {
	if bandit != nil {
		r.AddConsumerHandler(HandlerBanditFeedback, TopicInteractionRecorded, BanditFeedbackHandler(bandit))
	}
	if trigger != nil {
		r.AddConsumerHandler(HandlerRetrainCheck, TopicInteractionRecorded, RetrainCheckHandler(trigger))
	}
}
