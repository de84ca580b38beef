// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package models defines the data types shared across PlatePicker packages:
// restaurant catalog rows, parsed user queries, ranked candidates, users and
// interaction logs.
package models

import (
	"strconv"
	"strings"
)

// Restaurant is one row of the restaurant catalog. Numeric fields stay as
// strings because the source CSV is scraped and frequently has blanks.
type Restaurant struct {
	ID              string `json:"restaurant_id"`
	Name            string `json:"name"`
	BranchName      string `json:"branch_name"`
	Address         string `json:"address"`
	District        string `json:"district"`
	City            string `json:"city"`
	AvgRating       string `json:"avg_rating"`
	TotalReviews    string `json:"total_reviews"`
	DeliveryURL     string `json:"delivery_url"`
	DetailURL       string `json:"detail_url"`
	Cuisines        string `json:"cuisines"`
	Categories      string `json:"categories"`
	Latitude        string `json:"latitude"`
	Longitude       string `json:"longitude"`
	PriceRange      string `json:"price_range"`
	OpeningHours    string `json:"opening_hours"`
	RatingBreakdown string `json:"rating_breakdown"`
}

// Metadata keys used in the vector store.
const (
	MetaRestaurantID    = "restaurant_id"
	MetaName            = "name"
	MetaBranchName      = "branch_name"
	MetaAddress         = "address"
	MetaDistrict        = "district"
	MetaCity            = "city"
	MetaAvgRating       = "avg_rating"
	MetaTotalReviews    = "total_reviews"
	MetaDeliveryURL     = "delivery_url"
	MetaDetailURL       = "detail_url"
	MetaCuisines        = "cuisines"
	MetaCategories      = "categories"
	MetaLatitude        = "latitude"
	MetaLongitude       = "longitude"
	MetaPriceRange      = "price_range"
	MetaOpeningHours    = "opening_hours"
	MetaRatingBreakdown = "rating_breakdown"
)

// Metadata flattens r into the string map stored next to its embedding.
func (r *Restaurant) Metadata() map[string]string {
	return map[string]string{
		MetaRestaurantID:    r.ID,
		MetaName:            r.Name,
		MetaBranchName:      r.BranchName,
		MetaAddress:         r.Address,
		MetaDistrict:        r.District,
		MetaCity:            r.City,
		MetaAvgRating:       r.AvgRating,
		MetaTotalReviews:    r.TotalReviews,
		MetaDeliveryURL:     r.DeliveryURL,
		MetaDetailURL:       r.DetailURL,
		MetaCuisines:        r.Cuisines,
		MetaCategories:      r.Categories,
		MetaLatitude:        r.Latitude,
		MetaLongitude:       r.Longitude,
		MetaPriceRange:      r.PriceRange,
		MetaOpeningHours:    r.OpeningHours,
		MetaRatingBreakdown: r.RatingBreakdown,
	}
}

// RestaurantFromMetadata is the inverse of Metadata. Missing keys become "".
func RestaurantFromMetadata(m map[string]string) Restaurant {
	return Restaurant{
		ID:              m[MetaRestaurantID],
		Name:            m[MetaName],
		BranchName:      m[MetaBranchName],
		Address:         m[MetaAddress],
		District:        m[MetaDistrict],
		City:            m[MetaCity],
		AvgRating:       m[MetaAvgRating],
		TotalReviews:    m[MetaTotalReviews],
		DeliveryURL:     m[MetaDeliveryURL],
		DetailURL:       m[MetaDetailURL],
		Cuisines:        m[MetaCuisines],
		Categories:      m[MetaCategories],
		Latitude:        m[MetaLatitude],
		Longitude:       m[MetaLongitude],
		PriceRange:      m[MetaPriceRange],
		OpeningHours:    m[MetaOpeningHours],
		RatingBreakdown: m[MetaRatingBreakdown],
	}
}

// DisplayName prefers the restaurant name and falls back to the branch.
func (r *Restaurant) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.BranchName
}

// URL prefers the detail page over the delivery page.
func (r *Restaurant) URL() string {
	if r.DetailURL != "" {
		return r.DetailURL
	}
	return r.DeliveryURL
}

// ParseFloat parses a scraped numeric cell. ok is false for blanks and
// garbage such as "None".
func ParseFloat(s string) (v float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SplitList splits a comma separated cell, trimming blanks.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
