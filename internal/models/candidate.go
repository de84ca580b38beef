// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package models

import "strconv"

// Candidate is a restaurant moving through the ranking pipeline. Retrieval
// fills the descriptive fields; each ranker attaches its own score.
type Candidate struct {
	RestaurantID string   `json:"restaurant_id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	Rating       float64  `json:"rating"`
	PriceRange   string   `json:"price_range"`
	Cuisine      []string `json:"cuisine"`
	DistanceKM   *float64 `json:"distance_km"`
	URL          string   `json:"url"`
	OpeningHours string   `json:"opening_hours"`

	Score       float64  `json:"score"`
	CFScore     *float64 `json:"cf_score,omitempty"`
	BanditScore *float64 `json:"bandit_score,omitempty"`
}

// Key identifies a candidate for collaborative filtering: the restaurant id,
// else the url, else the position in the list.
func (c *Candidate) Key(index int) string {
	if c.RestaurantID != "" {
		return c.RestaurantID
	}
	if c.URL != "" {
		return c.URL
	}
	return strconv.Itoa(index)
}

// Distance returns the distance or 0 when unknown.
func (c *Candidate) Distance() float64 {
	if c.DistanceKM == nil {
		return 0
	}
	return *c.DistanceKM
}

// CF returns the collaborative filtering score or 0 when unscored.
func (c *Candidate) CF() float64 {
	if c.CFScore == nil {
		return 0
	}
	return *c.CFScore
}
