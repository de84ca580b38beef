// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package algorithms

import (
	"sort"
	"strings"

	"github.com/tomtom215/platepicker/internal/models"
)

// OnlineCF is a memory-based user/user collaborative filter built directly
// from positive interaction logs. It needs no training step and serves users
// until a trained factor model is available.
type OnlineCF struct {
	userItems      map[string]map[string]struct{}
	itemPopularity map[string]float64
	userItemReward map[string]map[string]float64
}

// NewOnlineCF indexes feedback with reward > 0. For repeated pairs the last
// reward wins while popularity sums every reward.
func NewOnlineCF(feedback []Feedback) *OnlineCF {
	cf := &OnlineCF{
		userItems:      make(map[string]map[string]struct{}),
		itemPopularity: make(map[string]float64),
		userItemReward: make(map[string]map[string]float64),
	}
	for _, f := range feedback {
		u, i := strings.TrimSpace(f.UserID), strings.TrimSpace(f.ItemID)
		if u == "" || i == "" || f.Reward <= 0 {
			continue
		}
		if cf.userItems[u] == nil {
			cf.userItems[u] = make(map[string]struct{})
			cf.userItemReward[u] = make(map[string]float64)
		}
		cf.userItems[u][i] = struct{}{}
		cf.userItemReward[u][i] = f.Reward
		cf.itemPopularity[i] += f.Reward
	}
	return cf
}

// ScoreCandidates returns, per candidate key, the sum over similar users of
// Jaccard(target, other) * other's reward for the item. Items no similar
// user rewarded fall back to 0.1 * popularity.
func (cf *OnlineCF) ScoreCandidates(userID string, keys []string) map[string]float64 {
	target := cf.userItems[userID]

	sims := make(map[string]float64)
	for other, items := range cf.userItems {
		if other == userID {
			continue
		}
		if s := jaccardSimilarity(target, items); s > 0 {
			sims[other] = s
		}
	}

	scores := make(map[string]float64, len(keys))
	for _, k := range keys {
		if _, done := scores[k]; done {
			continue
		}
		var s float64
		for other, sim := range sims {
			if r := cf.userItemReward[other][k]; r > 0 {
				s += sim * r
			}
		}
		if s == 0 {
			if p, ok := cf.itemPopularity[k]; ok {
				s = 0.1 * p
			}
		}
		scores[k] = s
	}
	return scores
}

// Rerank orders candidates by CF score descending, attaches CFScore and
// truncates to topK. Ties keep their input order; duplicate keys keep the
// first occurrence.
func (cf *OnlineCF) Rerank(userID string, candidates []models.Candidate, topK int) []models.Candidate {
	keys := make([]string, len(candidates))
	for i := range candidates {
		keys[i] = candidates[i].Key(i)
	}
	scores := cf.ScoreCandidates(userID, keys)

	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.Candidate, 0, len(candidates))
	for i := range candidates {
		if _, dup := seen[keys[i]]; dup {
			continue
		}
		seen[keys[i]] = struct{}{}
		c := candidates[i]
		s := scores[keys[i]]
		c.CFScore = &s
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CF() > out[j].CF() })
	return truncate(out, topK)
}

func truncate(c []models.Candidate, k int) []models.Candidate {
	if k > 0 && len(c) > k {
		return c[:k]
	}
	return c
}
