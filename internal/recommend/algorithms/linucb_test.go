// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package algorithms

import (
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/platepicker/internal/models"
)

func TestLinUCB_ScoreFresh(t *testing.T) {
	l := NewLinUCB(1.0)
	x := []float64{1, 2, -2, 0, 0}
	// theta = 0, A = I: score = sqrt(1+4+4) = 3
	if got := l.Score(x); math.Abs(got-3) > 1e-12 {
		t.Errorf("Score() = %v, want 3", got)
	}
}

func TestLinUCB_Update(t *testing.T) {
	l := NewLinUCB(0.5)
	x := []float64{1, 2, 0, 1, 0}
	l.Update(x, 1.0)

	s := l.State()
	wantA := []float64{2, 5, 1, 2, 1}
	wantB := []float64{1, 2, 0, 1, 0}
	if !reflect.DeepEqual(s.ADiag, wantA) || !reflect.DeepEqual(s.B, wantB) {
		t.Fatalf("state = %+v", s)
	}
	if s.Updates != 1 || l.Updates() != 1 {
		t.Errorf("updates = %d", s.Updates)
	}

	// theta = [0.5, 0.4, 0, 0.5, 0]; p = 0.5 + 0.8 + 0.5 = 1.8
	// conf = 1/2 + 4/5 + 0 + 1/2 + 0 = 1.8
	want := 1.8 + 0.5*math.Sqrt(1.8)
	if got := l.Score(x); math.Abs(got-want) > 1e-12 {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestLinUCB_StateRoundTrip(t *testing.T) {
	l := NewLinUCB(1)
	l.Update([]float64{1, 1, 1, 1, 1}, 0.3)
	restored, err := NewLinUCBFromState(l.State())
	if err != nil {
		t.Fatal(err)
	}
	x := []float64{1, 3, -1, 1, 0.2}
	if restored.Score(x) != l.Score(x) {
		t.Error("restored model scores differently")
	}

	if _, err := NewLinUCBFromState(LinUCBState{Dim: 3}); err == nil {
		t.Error("expected dimension error")
	}
	bad := l.State()
	bad.ADiag[0] = 0
	if _, err := NewLinUCBFromState(bad); err == nil {
		t.Error("expected non-positive diagonal error")
	}
}

func TestBanditFeatures(t *testing.T) {
	dist := 1.5
	cf := 0.4
	c := models.Candidate{Rating: 7.5, DistanceKM: &dist, CFScore: &cf, PriceRange: "50000-100000"}

	tests := []struct {
		name    string
		min     *float64
		max     *float64
		price   string
		wantFit float64
	}{
		{"no budget", nil, nil, "50000-100000", 0},
		{"inside", models.Float(60000), models.Float(90000), "50000-100000", 1},
		{"too cheap", models.Float(200000), nil, "50000-100000", -1},
		{"too expensive", nil, models.Float(30000), "50000-100000", -1},
		{"unparseable range", models.Float(200000), nil, "khoảng 50k", 1},
		{"single value", models.Float(200000), nil, "50000", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.PriceRange = tt.price
			q := &models.ParsedQuery{PriceRange: models.PriceRange{Min: tt.min, Max: tt.max}}
			got := BanditFeatures(&c, q)
			want := []float64{1, 7.5, -1.5, tt.wantFit, 0.4}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("BanditFeatures() = %v, want %v", got, want)
			}
		})
	}
}

func TestLinUCB_Rerank(t *testing.T) {
	l := NewLinUCB(1)
	near, far := 0.5, 4.0
	cands := []models.Candidate{
		{Name: "low", Rating: 5, DistanceKM: &far},
		{Name: "high", Rating: 9, DistanceKM: &near},
		{Name: "mid", Rating: 7, DistanceKM: &near},
	}
	got := l.Rerank(cands, &models.ParsedQuery{}, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Candidate.Name != "high" || got[1].Candidate.Name != "mid" {
		t.Errorf("order = %s, %s", got[0].Candidate.Name, got[1].Candidate.Name)
	}
	if got[0].Candidate.BanditScore == nil || len(got[0].Features) != FeatureDim {
		t.Error("expected bandit score and features")
	}
}
