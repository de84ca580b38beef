// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package models

// PriceRange is a VND budget. Either bound may be unknown.
type PriceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// IsSet reports whether the user gave any price bound.
func (p PriceRange) IsSet() bool {
	return p.Min != nil || p.Max != nil
}

// Location is a GPS coordinate. Either part may be unknown.
type Location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Known reports whether both coordinates are present.
func (l Location) Known() bool {
	return l.Lat != nil && l.Lng != nil
}

// ParsedQuery is the structured form of a free-text request produced by the
// input parser. Every field is always serialized; unknown values are null.
type ParsedQuery struct {
	Intent              string     `json:"intent"`
	Cuisine             []string   `json:"cuisine"`
	PriceRange          PriceRange `json:"price_range"`
	DistanceLimitKM     *float64   `json:"distance_limit_km"`
	RatingMin           *float64   `json:"rating_min"`
	SpecialRequirements []string   `json:"special_requirements"`
	Allergies           []string   `json:"allergies"`
	EatingTime          *string    `json:"eating_time"`
	UserLocation        Location   `json:"user_location"`
	RawInput            string     `json:"raw_input"`
}

// Float returns a pointer to v. Handy for building queries in code and tests.
func Float(v float64) *float64 {
	return &v
}
