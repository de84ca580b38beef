// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package parser converts a free-text restaurant request plus optional GPS
// into a models.ParsedQuery using an LLM in JSON mode.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/samber/lo"

	"github.com/tomtom215/platepicker/internal/models"
)

var (
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("parser: message is empty")

	// ErrInvalidResponse wraps a model reply that is not the expected JSON.
	ErrInvalidResponse = errors.New("parser: invalid model response")
)

// Completer returns the raw JSON reply for a system and a human message.
// Implemented by llm.Client.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// Parser is the LLM-backed input parser.
type Parser struct {
	llm Completer
}

// New creates a parser over llm.
func New(llm Completer) *Parser {
	return &Parser{llm: llm}
}

// Parse asks the model for a ParsedQuery and normalizes the reply.
func (p *Parser) Parse(ctx context.Context, message string, lat, lng *float64) (*models.ParsedQuery, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	reply, err := p.llm.CompleteJSON(ctx, SystemPrompt, HumanMessage(message, lat, lng))
	if err != nil {
		return nil, err
	}
	return Decode(reply, message, lat, lng)
}

// HumanMessage renders the human turn of the prompt.
func HumanMessage(message string, lat, lng *float64) string {
	return fmt.Sprintf("User input: \"%s\"\nLatitude: %s\nLongitude: %s\nReturn JSON only.",
		message, formatCoord(lat), formatCoord(lng))
}

func formatCoord(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Decode parses a model reply and applies post-processing:
// code fences are stripped, raw_input is forced to message, a null
// user_location is filled from the supplied GPS, nil lists become empty and
// cuisine tags are trimmed, lowercased and deduplicated.
func Decode(reply, message string, lat, lng *float64) (*models.ParsedQuery, error) {
	var raw rawQuery
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	q := &models.ParsedQuery{
		Intent:              strings.TrimSpace(raw.Intent.String()),
		Cuisine:             normalizeTags(raw.Cuisine),
		PriceRange:          models.PriceRange{Min: raw.PriceRange.Min.Ptr(), Max: raw.PriceRange.Max.Ptr()},
		DistanceLimitKM:     raw.DistanceLimitKM.Ptr(),
		RatingMin:           raw.RatingMin.Ptr(),
		SpecialRequirements: cleanList(raw.SpecialRequirements),
		Allergies:           cleanList(raw.Allergies),
		UserLocation:        models.Location{Lat: raw.UserLocation.Lat.Ptr(), Lng: raw.UserLocation.Lng.Ptr()},
		RawInput:            message,
	}
	if s := strings.TrimSpace(raw.EatingTime.String()); s != "" {
		q.EatingTime = &s
	}
	if q.UserLocation.Lat == nil && lat != nil {
		q.UserLocation.Lat = models.Float(*lat)
	}
	if q.UserLocation.Lng == nil && lng != nil {
		q.UserLocation.Lng = models.Float(*lng)
	}
	return q, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func normalizeTags(in []string) []string {
	tags := lo.FilterMap(in, func(s string, _ int) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		return s, s != ""
	})
	return lo.Uniq(tags)
}

func cleanList(in []string) []string {
	return lo.FilterMap(in, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
}
