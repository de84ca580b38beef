// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package algorithms

import (
	"errors"
	"math"
	"testing"

	"github.com/tomtom215/platepicker/internal/models"
)

func log(user, item, action string, reward float64) models.Interaction {
	return models.Interaction{UserID: user, RestaurantID: item, Action: action, Reward: reward}
}

func TestAggregateImplicit(t *testing.T) {
	logs := []models.Interaction{
		log("u1", "a", "click", 0.1),
		log("u1", "a", "click", 0.1),
		log("u1", "b", "like", 1.0),
		log("u1", "b", "dislike", -0.5),
		log("u1", "c", "dislike", -0.5),
		log("u1", "c", "like", 1.0),
		log("u2", "a", "rating", 0.7),
		log("u2", "a", "rating", 0.4),
		log("u2", "d", "impression", 0),
		log(" u3 ", "e", "LIKE", 1.0),
	}
	for i := 0; i < 15; i++ {
		logs = append(logs, log("u4", "f", "click", 0.1))
	}

	got, err := AggregateImplicit(logs)
	if err != nil {
		t.Fatalf("AggregateImplicit() error = %v", err)
	}

	want := map[[2]string]float64{
		{"u1", "a"}: 0.2,
		{"u1", "c"}: 1.0,
		{"u2", "a"}: 0.7,
		{"u3", "e"}: 1.0,
		{"u4", "f"}: 1.0,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d pairs %+v, want %d", len(got), got, len(want))
	}
	for _, f := range got {
		w, ok := want[[2]string{f.UserID, f.ItemID}]
		if !ok {
			t.Errorf("unexpected pair %+v", f)
			continue
		}
		if math.Abs(f.Reward-w) > 1e-9 {
			t.Errorf("%s/%s = %v, want %v", f.UserID, f.ItemID, f.Reward, w)
		}
	}
	if got[0].UserID != "u1" || got[0].ItemID != "a" {
		t.Errorf("expected first-seen order, got %+v", got[0])
	}
}

func TestAggregateImplicit_NoPositives(t *testing.T) {
	_, err := AggregateImplicit([]models.Interaction{log("u1", "a", "dislike", -0.5), log("u1", "b", "impression", 0)})
	if !errors.Is(err, ErrNoPositivePairs) {
		t.Errorf("error = %v, want ErrNoPositivePairs", err)
	}
}
