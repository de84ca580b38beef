// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package retrieval

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/recommend"
	"github.com/tomtom215/platepicker/internal/vectorstore"
)

type fakeSearcher struct {
	results []vectorstore.Result
	err     error
	query   string
	n       int
}

func (f *fakeSearcher) Search(_ context.Context, query string, n int) ([]vectorstore.Result, error) {
	f.query, f.n = query, n
	return f.results, f.err
}

func row(id, name, cuisines string, rating, lat, lng string) vectorstore.Result {
	return vectorstore.Result{ID: id, Metadata: map[string]string{
		models.MetaRestaurantID: id,
		models.MetaName:         name,
		models.MetaCuisines:     cuisines,
		models.MetaAvgRating:    rating,
		models.MetaLatitude:     lat,
		models.MetaLongitude:    lng,
		models.MetaAddress:      "Đà Nẵng",
		models.MetaDetailURL:    "https://www.foody.vn/" + id,
		models.MetaPriceRange:   "30000-60000",
	}}
}

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
	}{
		{"same point", 16.065, 108.229, 16.065, 108.229, 0},
		{"one degree latitude", 0, 0, 1, 0, 111.195},
		{"hanoi to hcmc", 21.0285, 105.8542, 10.8231, 106.6297, 1137.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > 0.005*tt.want+0.01 {
				t.Errorf("Haversine() = %.3f, want ~%.3f", got, tt.want)
			}
		})
	}
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Gà Rán":        "ga ran",
		"Hàn Quốc":      "han quoc",
		"Đồ Nướng":      "do nuong",
		"bún bò huế":    "bun bo hue",
		"fried chicken": "fried chicken",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpandCuisine(t *testing.T) {
	got := ExpandCuisine([]string{"korean", "pho"})
	want := []string{"korean", "han quoc", "korean", "pho"}
	if len(got) != len(want) {
		t.Fatalf("ExpandCuisine() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ExpandCuisine()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPassesCuisine(t *testing.T) {
	meta := map[string]string{
		models.MetaName:       "Popeyes",
		models.MetaCuisines:   "Gà Rán, Món Mỹ",
		models.MetaCategories: "Quán ăn",
	}
	tests := []struct {
		name      string
		requested []string
		want      bool
	}{
		{"empty request", nil, true},
		{"alias expands to ga ran", []string{"fried chicken"}, true},
		{"diacritic insensitive", []string{"gà"}, true},
		{"category match", []string{"quan an"}, true},
		{"name match", []string{"popeyes"}, true},
		{"no match", []string{"korean"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PassesCuisine(meta, tt.requested); got != tt.want {
				t.Errorf("PassesCuisine(%v) = %v, want %v", tt.requested, got, tt.want)
			}
		})
	}

	bbq := map[string]string{models.MetaBranchName: "Lẩu Nướng Đà Nẵng"}
	if !PassesCuisine(bbq, []string{"bbq"}) {
		t.Error("bbq should match nuong in the branch name")
	}
}

func TestPassesRating(t *testing.T) {
	tests := []struct {
		rating string
		min    *float64
		want   bool
	}{
		{"7.5", nil, true},
		{"7.5", models.Float(7), true},
		{"7.0", models.Float(7), true},
		{"6.9", models.Float(7), false},
		{"", models.Float(7), true},
		{"None", models.Float(7), true},
	}
	for _, tt := range tests {
		meta := map[string]string{models.MetaAvgRating: tt.rating}
		if got := PassesRating(meta, tt.min); got != tt.want {
			t.Errorf("PassesRating(%q) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}

func TestPassesDistance(t *testing.T) {
	user := models.Location{Lat: models.Float(16.065), Lng: models.Float(108.229)}
	near := map[string]string{models.MetaLatitude: "16.07", models.MetaLongitude: "108.23"}
	far := map[string]string{models.MetaLatitude: "16.2", models.MetaLongitude: "108.4"}
	noCoords := map[string]string{}

	tests := []struct {
		name  string
		meta  map[string]string
		limit *float64
		user  models.Location
		want  bool
	}{
		{"no limit", far, nil, user, true},
		{"within", near, models.Float(2), user, true},
		{"beyond", far, models.Float(2), user, false},
		{"restaurant without coordinates", noCoords, models.Float(2), user, true},
		{"unknown user", far, models.Float(2), models.Location{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PassesDistance(tt.meta, tt.limit, tt.user); got != tt.want {
				t.Errorf("PassesDistance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildCandidate(t *testing.T) {
	meta := map[string]string{
		models.MetaBranchName:   "Chi nhánh Hải Châu",
		models.MetaAddress:      "1 Bạch Đằng",
		models.MetaAvgRating:    "8.1",
		models.MetaCuisines:     "Bún, Phở",
		models.MetaDeliveryURL:  "https://shopeefood.vn/x",
		models.MetaPriceRange:   "25000-50000",
		models.MetaOpeningHours: "07:00 - 21:00",
	}

	c := BuildCandidate("77", meta, models.Location{Lat: models.Float(16), Lng: models.Float(108)})
	if c.RestaurantID != "77" || c.Name != "Chi nhánh Hải Châu" || c.URL != "https://shopeefood.vn/x" {
		t.Errorf("BuildCandidate() = %+v", c)
	}
	if c.Rating != 8.1 || c.PriceRange != "25000-50000" || c.OpeningHours != "07:00 - 21:00" {
		t.Errorf("BuildCandidate() fields = %+v", c)
	}
	if len(c.Cuisine) != 2 || c.Cuisine[0] != "bún" {
		t.Errorf("Cuisine = %v", c.Cuisine)
	}
	if c.Lat != nil || c.DistanceKM != nil {
		t.Errorf("unknown coordinates should give nil lat and nil distance: %+v", c)
	}

	// Known coordinates but no user location: still unknown.
	meta[models.MetaLatitude] = "16.07"
	meta[models.MetaLongitude] = "108.22"
	c = BuildCandidate("77", meta, models.Location{})
	if c.Lat == nil || c.DistanceKM != nil {
		t.Errorf("missing user location should give nil distance: %+v", c)
	}
	if got := recommend.FormatAnswer([]models.Candidate{c}); strings.Contains(got, "km") {
		t.Errorf("answer shows a distance for an unknown one: %q", got)
	}
}

func TestRetrieve(t *testing.T) {
	store := &fakeSearcher{results: []vectorstore.Result{
		row("1", "Gà Rán KFC", "Gà rán", "8.0", "16.066", "108.230"),
		row("2", "Bún Chả Cá", "Bún", "9.0", "16.066", "108.230"),
		row("3", "Popeyes", "Gà rán", "5.0", "16.066", "108.230"),
		row("4", "Texas Chicken", "Fried Chicken", "8.5", "16.5", "108.9"),
	}}
	r := New(store)

	q := &models.ParsedQuery{
		RawInput:        "gà rán gần đây",
		Cuisine:         []string{"fried chicken"},
		RatingMin:       models.Float(7),
		DistanceLimitKM: models.Float(3),
		UserLocation:    models.Location{Lat: models.Float(16.065), Lng: models.Float(108.229)},
	}
	got, err := r.Retrieve(context.Background(), q)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if store.query != "gà rán gần đây" || store.n != 0 {
		t.Errorf("searched %q n=%d", store.query, store.n)
	}
	if len(got) != 1 || got[0].RestaurantID != "1" {
		t.Fatalf("Retrieve() = %+v, want only restaurant 1", got)
	}
	if got[0].Distance() <= 0 || got[0].Distance() > 1 {
		t.Errorf("distance = %v", got[0].Distance())
	}
}

func TestRetrieve_SearchTextFallback(t *testing.T) {
	store := &fakeSearcher{}
	r := New(store)

	if _, err := r.Retrieve(context.Background(), &models.ParsedQuery{Cuisine: []string{"pho", "bun"}}); err != nil {
		t.Fatal(err)
	}
	if store.query != "pho, bun" {
		t.Errorf("query = %q", store.query)
	}
	if _, err := r.Retrieve(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if store.query != fallbackQuery {
		t.Errorf("query = %q", store.query)
	}
}

func TestRetrieve_Error(t *testing.T) {
	r := New(&fakeSearcher{err: errors.New("boom")})
	if _, err := r.Retrieve(context.Background(), &models.ParsedQuery{RawInput: "x"}); err == nil {
		t.Error("expected error")
	}
}
