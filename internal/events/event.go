// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/platepicker/internal/models"
)

// TopicInteractionRecorded is published after an interaction is stored.
const TopicInteractionRecorded = "interaction.recorded"

// InteractionEvent is the payload of TopicInteractionRecorded.
type InteractionEvent struct {
	EventID     string             `json:"event_id"`
	OccurredAt  time.Time          `json:"occurred_at"`
	Interaction models.Interaction `json:"interaction"`
}

// NewInteractionEvent wraps it with a fresh id.
func NewInteractionEvent(it *models.Interaction) InteractionEvent {
	return InteractionEvent{
		EventID:     uuid.New().String(),
		OccurredAt:  time.Now().UTC(),
		Interaction: *it,
	}
}

// Message serializes e into a Watermill message keyed by the event id.
func (e InteractionEvent) Message() (*message.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("serialize interaction event: %w", err)
	}
	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set("action", e.Interaction.Action)
	msg.Metadata.Set("user_id", e.Interaction.UserID)
	return msg, nil
}

// DecodeInteraction parses a TopicInteractionRecorded payload.
func DecodeInteraction(msg *message.Message) (InteractionEvent, error) {
	var e InteractionEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return e, fmt.Errorf("deserialize interaction event %s: %w", msg.UUID, err)
	}
	return e, nil
}
