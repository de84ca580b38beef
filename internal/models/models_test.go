// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package models

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func TestRestaurantMetadataRoundTrip(t *testing.T) {
	r := Restaurant{
		ID: "10001", Name: "Gà Rán Popeyes", BranchName: "Lê Duẩn", Address: "1 Lê Duẩn",
		District: "Hải Châu", City: "Đà Nẵng", AvgRating: "7.8", Latitude: "16.07", Longitude: "108.22",
		Cuisines: "Gà rán, Fastfood", PriceRange: "50000-150000",
	}
	got := RestaurantFromMetadata(r.Metadata())
	if !reflect.DeepEqual(got, r) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, r)
	}
}

func TestDisplayNameAndURL(t *testing.T) {
	r := Restaurant{BranchName: "Chi nhánh 2", DeliveryURL: "https://delivery"}
	if r.DisplayName() != "Chi nhánh 2" {
		t.Errorf("DisplayName() = %q", r.DisplayName())
	}
	if r.URL() != "https://delivery" {
		t.Errorf("URL() = %q", r.URL())
	}
	r.Name, r.DetailURL = "Quán A", "https://detail"
	if r.DisplayName() != "Quán A" || r.URL() != "https://detail" {
		t.Errorf("preferred fields not used: %q %q", r.DisplayName(), r.URL())
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"7.5", 7.5, true},
		{" 16.06 ", 16.06, true},
		{"", 0, false},
		{"None", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseFloat(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFloat(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSplitList(t *testing.T) {
	if got := SplitList(" Gà rán, ,Món Hàn "); !reflect.DeepEqual(got, []string{"Gà rán", "Món Hàn"}) {
		t.Errorf("SplitList = %v", got)
	}
	if SplitList("  ") != nil {
		t.Error("expected nil for blank input")
	}
}

func TestCandidateKey(t *testing.T) {
	tests := []struct {
		c    Candidate
		want string
	}{
		{Candidate{RestaurantID: "42", URL: "u"}, "42"},
		{Candidate{URL: "https://x"}, "https://x"},
		{Candidate{}, "3"},
	}
	for _, tt := range tests {
		if got := tt.c.Key(3); got != tt.want {
			t.Errorf("Key() = %q, want %q", got, tt.want)
		}
	}
}

func TestParsedQueryJSONHasAllFields(t *testing.T) {
	b, err := json.Marshal(ParsedQuery{})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"intent", "cuisine", "price_range", "distance_limit_km", "rating_min",
		"special_requirements", "allergies", "eating_time", "user_location", "raw_input"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, b)
		}
	}
}
