// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package recommend

import (
	"context"
	"testing"

	"github.com/tomtom215/platepicker/internal/models"
)

func TestBandit_PersistAndRestore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	cfg := testConfig()

	b := NewBandit(ctx, store, cfg)
	served := b.Rerank("u1", testCandidates(), &models.ParsedQuery{}, 3)
	if len(served) != 3 {
		t.Fatalf("Rerank returned %d", len(served))
	}

	for _, c := range served {
		if ok, err := b.Feedback(ctx, "u1", c.RestaurantID, 1); !ok || err != nil {
			t.Fatalf("Feedback(%s) = %v, %v", c.RestaurantID, ok, err)
		}
	}

	restored := NewBandit(ctx, store, cfg)
	if got := restored.State().Updates; got != 3 {
		t.Errorf("restored updates = %d, want 3", got)
	}
}

func TestBandit_FeedbackIgnored(t *testing.T) {
	ctx := context.Background()
	b := NewBandit(ctx, nil, testConfig())
	served := b.Rerank("", testCandidates(), nil, 1)
	id := served[0].RestaurantID

	tests := []struct {
		name   string
		user   string
		item   string
		reward float64
		want   bool
	}{
		{"zero reward", "", id, 0, false},
		{"unknown restaurant", "", "r999", 1, false},
		{"empty restaurant", "", "", 1, false},
		{"anonymous match", models.AnonymousUser, id, -0.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Feedback(ctx, tt.user, tt.item, tt.reward)
			if err != nil {
				t.Fatalf("Feedback() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Feedback() = %v, want %v", got, tt.want)
			}
		})
	}
}
