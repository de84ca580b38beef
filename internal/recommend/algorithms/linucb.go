// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package algorithms

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tomtom215/platepicker/internal/models"
)

// FeatureDim is the length of the bandit context vector:
// [bias, rating, -distance_km, price_fit, cf_score].
const FeatureDim = 5

// LinUCBState is the persisted form of a LinUCB model.
type LinUCBState struct {
	Alpha   float64   `json:"alpha"`
	Dim     int       `json:"dim"`
	ADiag   []float64 `json:"a_diag"`
	B       []float64 `json:"b"`
	Updates int64     `json:"updates"`
}

// LinUCB is a contextual bandit with one weight vector shared across all
// restaurants and a diagonal approximation of the design matrix:
//
//	theta_i = b_i / A_i
//	score   = theta . x + alpha * sqrt(sum_i x_i^2 / A_i)
//
// Reference: Li et al., "A Contextual-Bandit Approach to Personalized News
// Article Recommendation" (2010).
type LinUCB struct {
	mu      sync.RWMutex
	alpha   float64
	aDiag   []float64
	b       []float64
	updates int64
}

// NewLinUCB creates a fresh model with A = I and b = 0.
func NewLinUCB(alpha float64) *LinUCB {
	l := &LinUCB{alpha: alpha, aDiag: make([]float64, FeatureDim), b: make([]float64, FeatureDim)}
	for i := range l.aDiag {
		l.aDiag[i] = 1
	}
	return l
}

// NewLinUCBFromState restores a persisted model.
func NewLinUCBFromState(s LinUCBState) (*LinUCB, error) {
	if s.Dim != FeatureDim || len(s.ADiag) != FeatureDim || len(s.B) != FeatureDim {
		return nil, fmt.Errorf("linucb: state has dimension %d, want %d", s.Dim, FeatureDim)
	}
	for _, a := range s.ADiag {
		if a <= 0 {
			return nil, fmt.Errorf("linucb: non-positive diagonal entry %v", a)
		}
	}
	return &LinUCB{
		alpha:   s.Alpha,
		aDiag:   append([]float64(nil), s.ADiag...),
		b:       append([]float64(nil), s.B...),
		updates: s.Updates,
	}, nil
}

// State snapshots the model for persistence.
func (l *LinUCB) State() LinUCBState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LinUCBState{
		Alpha:   l.alpha,
		Dim:     FeatureDim,
		ADiag:   append([]float64(nil), l.aDiag...),
		B:       append([]float64(nil), l.b...),
		Updates: l.updates,
	}
}

// Score returns the upper confidence bound for context x.
func (l *LinUCB) Score(x []float64) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var p, conf float64
	for i := 0; i < FeatureDim && i < len(x); i++ {
		p += (l.b[i] / l.aDiag[i]) * x[i]
		conf += x[i] * x[i] / l.aDiag[i]
	}
	return p + l.alpha*math.Sqrt(conf)
}

// Update folds an observed reward for context x into the model.
func (l *LinUCB) Update(x []float64, reward float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := 0; i < FeatureDim && i < len(x); i++ {
		l.aDiag[i] += x[i] * x[i]
		l.b[i] += x[i] * reward
	}
	l.updates++
}

// Updates returns the number of rewards observed.
func (l *LinUCB) Updates() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.updates
}

// Ranked pairs a candidate with the context vector it was scored on.
type Ranked struct {
	Candidate models.Candidate
	Features  []float64
}

// Rerank scores candidates, attaches BanditScore, sorts descending and
// truncates to topK.
func (l *LinUCB) Rerank(candidates []models.Candidate, q *models.ParsedQuery, topK int) []Ranked {
	out := make([]Ranked, len(candidates))
	for i := range candidates {
		c := candidates[i]
		x := BanditFeatures(&c, q)
		s := l.Score(x)
		c.BanditScore = &s
		out[i] = Ranked{Candidate: c, Features: x}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Candidate.BanditScore > *out[j].Candidate.BanditScore
	})
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

// BanditFeatures builds [1, rating, -distance_km, price_fit, cf_score].
//
// price_fit is 0 when the user gave no budget. Otherwise it is -1 when the
// restaurant's "min-max" range lies entirely outside the budget and +1 in
// every other case, including unparseable ranges. Zero bounds count as
// unknown on both sides.
func BanditFeatures(c *models.Candidate, q *models.ParsedQuery) []float64 {
	var itemMin, itemMax float64
	if lo, hi, ok := strings.Cut(c.PriceRange, "-"); ok {
		a, errA := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if errA == nil && errB == nil {
			itemMin, itemMax = a, b
		}
	}

	var userMin, userMax float64
	if q != nil {
		if q.PriceRange.Min != nil {
			userMin = *q.PriceRange.Min
		}
		if q.PriceRange.Max != nil {
			userMax = *q.PriceRange.Max
		}
	}

	var fit float64
	if userMin != 0 || userMax != 0 {
		switch {
		case userMin != 0 && itemMax != 0 && itemMax < userMin:
			fit = -1
		case userMax != 0 && itemMin != 0 && itemMin > userMax:
			fit = -1
		default:
			fit = 1
		}
	}

	return []float64{1, c.Rating, -c.Distance(), fit, c.CF()}
}
