// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package reranking implements the rule-based pre-ranking stage applied to
// retrieval results before collaborative filtering and the bandit.
package reranking

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/platepicker/internal/models"
)

// Heuristic weights.
const (
	ratingWeight      = 1.5
	belowMinPenalty   = 2.0
	distanceHorizonKM = 5.0
	priceFitBonus     = 2.0
	priceMissPenalty  = 3.0
)

// Heuristic scores candidates by rating, proximity and budget fit.
type Heuristic struct{}

// NewHeuristic returns the heuristic reranker.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Score computes:
//
//	rating*1.5
//	- 2          if rating_min is set and a known rating is below it
//	+ max(0, 5 - distance_km)   unknown distance counts as 0
//	+ 2 / - 3    when the user gave a budget and the price fits / misses
func (h *Heuristic) Score(c *models.Candidate, q *models.ParsedQuery) float64 {
	score := c.Rating * ratingWeight

	if q.RatingMin != nil && *q.RatingMin != 0 && c.Rating != 0 && c.Rating < *q.RatingMin {
		score -= belowMinPenalty
	}

	score += max(0, distanceHorizonKM-c.Distance())

	if q.PriceRange.IsSet() {
		if PriceFits(q.PriceRange, c.PriceRange) {
			score += priceFitBonus
		} else {
			score -= priceMissPenalty
		}
	}
	return score
}

// Rerank sets Score on each candidate, sorts descending (stable) and
// truncates to topK. topK <= 0 keeps every candidate.
func (h *Heuristic) Rerank(candidates []models.Candidate, q *models.ParsedQuery, topK int) []models.Candidate {
	if q == nil {
		q = &models.ParsedQuery{}
	}
	out := make([]models.Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Score = h.Score(&out[i], q)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

// ParsePriceRange reads "min-max" or a single value. ok is false when the
// string carries no usable number.
func ParsePriceRange(s string) (lo, hi float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	parts := strings.Split(s, "-")
	if len(parts) == 2 {
		a, errA := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errA != nil || errB != nil {
			return 0, 0, false
		}
		return a, b, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	return v, v, true
}

// PriceFits reports whether a restaurant's price range overlaps the user's
// budget. Restaurants without price data always fit.
func PriceFits(budget models.PriceRange, itemRange string) bool {
	lo, hi, ok := ParsePriceRange(itemRange)
	if !ok {
		return true
	}
	if budget.Min != nil && hi < *budget.Min {
		return false
	}
	if budget.Max != nil && lo > *budget.Max {
		return false
	}
	return true
}
