// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package algorithms

import (
	"math"
	"testing"

	"github.com/tomtom215/platepicker/internal/models"
)

func TestJaccardSimilarity(t *testing.T) {
	set := func(xs ...string) map[string]struct{} {
		m := make(map[string]struct{})
		for _, x := range xs {
			m[x] = struct{}{}
		}
		return m
	}
	tests := []struct {
		a, b map[string]struct{}
		want float64
	}{
		{set("a", "b"), set("b", "c"), 1.0 / 3.0},
		{set("a"), set("a"), 1},
		{set(), set("a"), 0},
		{set("a"), set("b"), 0},
	}
	for _, tt := range tests {
		if got := jaccardSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("jaccard = %v, want %v", got, tt.want)
		}
	}
}

func TestOnlineCF_ScoreCandidates(t *testing.T) {
	cf := NewOnlineCF([]Feedback{
		{"me", "a", 1}, {"me", "b", 1},
		{"peer", "a", 1}, {"peer", "c", 0.5}, // jaccard(me,peer) = 1/3
		{"stranger", "d", 1}, {"stranger2", "d", 1}, // popularity only
		{"neg", "e", -1},
	})

	scores := cf.ScoreCandidates("me", []string{"c", "d", "e", "zzz"})
	if math.Abs(scores["c"]-0.5/3.0) > 1e-12 {
		t.Errorf("score(c) = %v, want %v", scores["c"], 0.5/3.0)
	}
	if math.Abs(scores["d"]-0.2) > 1e-12 {
		t.Errorf("popularity fallback score(d) = %v, want 0.2", scores["d"])
	}
	if scores["e"] != 0 || scores["zzz"] != 0 {
		t.Errorf("unknown items should score 0: %v", scores)
	}
	if len(cf.userItems) != 4 {
		t.Errorf("users = %d, want 4 (negative rewards ignored)", len(cf.userItems))
	}
}

func TestOnlineCF_Rerank(t *testing.T) {
	cf := NewOnlineCF([]Feedback{
		{"me", "a", 1},
		{"peer", "a", 1}, {"peer", "b", 1},
	})
	cands := []models.Candidate{
		{Name: "no id"},
		{RestaurantID: "x", Name: "unseen"},
		{RestaurantID: "b", Name: "peer liked"},
		{RestaurantID: "b", Name: "duplicate"},
	}

	got := cf.Rerank("me", cands, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "peer liked" || got[0].CF() <= 0 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Name != "no id" || got[1].CFScore == nil || *got[1].CFScore != 0 {
		t.Errorf("ties should keep input order, got %+v", got[1])
	}

	all := cf.Rerank("me", cands, 0)
	if len(all) != 3 {
		t.Errorf("topK 0 should keep all unique candidates, got %d", len(all))
	}
}
