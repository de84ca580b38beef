// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomtom215/platepicker/internal/models"
)

// Answer strings.
const (
	NoResultsAnswer = "Không tìm thấy quán phù hợp."
	answerHeader    = "Gợi ý quán:"
)

// FormatAnswer renders the reply text:
//
//	Gợi ý quán:
//	- name | address | (1.23 km; rating 8.5; giá 30000-80000; giờ 07:00 - 22:00)
//	  https://www.foody.vn/...
//
// Empty parts are omitted and the parenthesized block appears only when it
// has entries.
func FormatAnswer(restaurants []models.Candidate) string {
	if len(restaurants) == 0 {
		return NoResultsAnswer
	}

	lines := make([]string, 0, 1+2*len(restaurants))
	lines = append(lines, answerHeader)
	for i := range restaurants {
		r := &restaurants[i]

		parts := []string{"- " + r.Name}
		if r.Address != "" {
			parts = append(parts, r.Address)
		}

		var extra []string
		if r.DistanceKM != nil {
			extra = append(extra, fmt.Sprintf("%.2f km", *r.DistanceKM))
		}
		if r.Rating != 0 {
			extra = append(extra, "rating "+formatRating(r.Rating))
		}
		if r.PriceRange != "" {
			extra = append(extra, "giá "+r.PriceRange)
		}
		if r.OpeningHours != "" {
			extra = append(extra, "giờ "+r.OpeningHours)
		}
		if len(extra) > 0 {
			parts = append(parts, "("+strings.Join(extra, "; ")+")")
		}

		lines = append(lines, strings.Join(parts, " | "))
		if r.URL != "" {
			lines = append(lines, "  "+r.URL)
		}
	}
	return strings.Join(lines, "\n")
}

// formatRating prints whole ratings with one decimal ("8.0") and keeps the
// shortest form otherwise ("7.25").
func formatRating(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
