// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package parser

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// rawQuery mirrors the prompt schema with types tolerant of the usual model
// slips: numbers sent as strings, a single string where a list belongs.
type rawQuery struct {
	Intent     text `json:"intent"`
	Cuisine    list `json:"cuisine"`
	PriceRange struct {
		Min number `json:"min"`
		Max number `json:"max"`
	} `json:"price_range"`
	DistanceLimitKM     number `json:"distance_limit_km"`
	RatingMin           number `json:"rating_min"`
	SpecialRequirements list   `json:"special_requirements"`
	Allergies           list   `json:"allergies"`
	EatingTime          text   `json:"eating_time"`
	UserLocation        struct {
		Lat number `json:"lat"`
		Lng number `json:"lng"`
	} `json:"user_location"`
}

var null = []byte("null")

// number accepts a JSON number, a numeric string or null.
type number struct {
	v     float64
	valid bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, null) {
		*n = number{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "null") {
			*n = number{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*n = number{}
			return nil
		}
		*n = number{v: v, valid: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = number{v: v, valid: true}
	return nil
}

// Ptr returns nil for an absent value.
func (n number) Ptr() *float64 {
	if !n.valid {
		return nil
	}
	v := n.v
	return &v
}

// text accepts a string, a number or null.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, null):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		*t = text(b)
	}
	return nil
}

func (t text) String() string { return string(t) }

// list accepts an array of strings, a single string or null.
type list []string

func (l *list) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, null):
		*l = nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = list{s}
	default:
		var items []text
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		out := make(list, len(items))
		for i, it := range items {
			out[i] = string(it)
		}
		*l = out
	}
	return nil
}
