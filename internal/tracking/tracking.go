// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package tracking records user interactions with recommended restaurants.
//
// Every event is normalized, stored in the interaction log and then announced
// on the event bus so the bandit and the retrain trigger can react to it.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/metrics"
	"github.com/tomtom215/platepicker/internal/models"
)

// ErrMissingRestaurant is returned when an event names no restaurant.
var ErrMissingRestaurant = errors.New("tracking: restaurant_id is required")

// Vietnam is the zone interaction timestamps are written in.
var Vietnam = time.FixedZone("ICT", 7*60*60)

// DefaultRewards apply when an event carries no reward or a zero reward.
var DefaultRewards = map[string]float64{
	models.ActionImpression: 0,
	models.ActionView:       0,
	models.ActionClick:      0.1,
	models.ActionLike:       1.0,
	models.ActionDislike:    -0.5,
}

// Event is one raw tracking call.
type Event struct {
	UserID       string
	RestaurantID string
	Action       string
	Reward       *float64
	Lat          *float64
	Lng          *float64
	Intent       string
	Cuisine      []string
	PriceMin     *float64
	PriceMax     *float64
}

// Store persists interactions.
type Store interface {
	Insert(ctx context.Context, it *models.Interaction) error
}

// Publisher announces stored interactions.
type Publisher interface {
	PublishInteraction(ctx context.Context, it *models.Interaction) error
}

// Recorder implements the interaction logger.
type Recorder struct {
	store     Store
	publisher Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewRecorder creates a Recorder. publisher may be nil.
func NewRecorder(store Store, publisher Publisher) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		now:       time.Now,
		logger:    logging.WithComponent("tracking"),
	}
}

// Record normalizes ev, inserts it and publishes it. A publish failure is
// logged; the stored interaction stands.
func (r *Recorder) Record(ctx context.Context, ev Event) (*models.Interaction, error) {
	it, err := r.Normalize(ev)
	if err != nil {
		return nil, err
	}

	if err := r.store.Insert(ctx, it); err != nil {
		return nil, fmt.Errorf("record interaction: %w", err)
	}
	metrics.InteractionsRecorded.WithLabelValues(it.Action).Inc()

	if r.publisher != nil {
		if err := r.publisher.PublishInteraction(ctx, it); err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("restaurant_id", it.RestaurantID).
				Msg("Interaction stored but not published")
		}
	}
	return it, nil
}

// Normalize converts ev into a log row without side effects.
func (r *Recorder) Normalize(ev Event) (*models.Interaction, error) {
	rid := strings.TrimSpace(ev.RestaurantID)
	if rid == "" {
		return nil, ErrMissingRestaurant
	}

	action := NormalizeAction(ev.Action)
	user := strings.TrimSpace(ev.UserID)
	if user == "" {
		user = models.AnonymousUser
	}

	it := &models.Interaction{
		UserID:       user,
		RestaurantID: rid,
		Timestamp:    r.now().In(Vietnam).Format(time.RFC3339),
		Action:       action,
		Reward:       RewardFor(action, ev.Reward),
		Lat:          ev.Lat,
		Lng:          ev.Lng,
		PriceMin:     ev.PriceMin,
		PriceMax:     ev.PriceMax,
	}
	if intent := strings.TrimSpace(ev.Intent); intent != "" {
		it.Intent = &intent
	}
	if cuisine := lo.Compact(ev.Cuisine); len(cuisine) > 0 {
		joined := strings.Join(cuisine, ", ")
		it.Cuisine = &joined
	}
	return it, nil
}

// NormalizeAction trims and lowercases action, defaulting to impression.
func NormalizeAction(action string) string {
	a := strings.ToLower(strings.TrimSpace(action))
	if a == "" {
		return models.ActionImpression
	}
	return a
}

// RewardFor returns reward unless it is nil or zero, in which case the
// default for action applies. Unknown actions default to 0.
func RewardFor(action string, reward *float64) float64 {
	if reward != nil && *reward != 0 {
		return *reward
	}
	return DefaultRewards[action]
}

// ParseFloat parses an optional numeric form value. "", "None" and "null"
// are treated as absent, as is anything unparseable.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "", "None", "null":
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
