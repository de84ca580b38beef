// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package algorithms

import (
	"errors"
	"strings"

	"github.com/tomtom215/platepicker/internal/models"
)

// ErrNoPositivePairs is returned when aggregation leaves nothing to train on.
var ErrNoPositivePairs = errors.New("no positive aggregated rewards to train CF model")

// AggregateImplicit folds raw interaction logs into one implicit rating per
// (user, restaurant) pair, processing logs in the order given:
//
//	dislike  -> min(cur, -0.5)
//	like     -> max(cur, 1.0)
//	click    -> min(cur+0.1, 1.0)
//	other    -> max(cur, reward) when reward > 0
//
// Only pairs ending above zero are returned, in first-seen order.
func AggregateImplicit(logs []models.Interaction) ([]Feedback, error) {
	type key struct{ u, i string }
	agg := make(map[key]float64)
	order := make([]key, 0)

	for i := range logs {
		l := &logs[i]
		k := key{strings.TrimSpace(l.UserID), strings.TrimSpace(l.RestaurantID)}
		cur, seen := agg[k]
		if !seen {
			order = append(order, k)
		}

		switch strings.ToLower(l.Action) {
		case models.ActionDislike:
			cur = min(cur, -0.5)
		case models.ActionLike:
			cur = max(cur, 1.0)
		case models.ActionClick:
			cur = min(cur+0.1, 1.0)
		default:
			if l.Reward > 0 {
				cur = max(cur, l.Reward)
			}
		}
		agg[k] = cur
	}

	out := make([]Feedback, 0, len(order))
	for _, k := range order {
		if r := agg[k]; r > 0 {
			out = append(out, Feedback{UserID: k.u, ItemID: k.i, Reward: r})
		}
	}
	if len(out) == 0 {
		return nil, ErrNoPositivePairs
	}
	return out, nil
}
