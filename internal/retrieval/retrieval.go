// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package retrieval turns a parsed query into restaurant candidates by
// reading the vector store and applying the cuisine, rating, distance and
// special requirement filters.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/vectorstore"
)

// fallbackQuery is searched when the query carries no text at all.
const fallbackQuery = "nhà hàng quán ăn"

// Searcher is the subset of vectorstore.Store used here.
type Searcher interface {
	Search(ctx context.Context, query string, n int) ([]vectorstore.Result, error)
}

// Retriever implements recommend.Retriever over a vector store.
type Retriever struct {
	store  Searcher
	logger zerolog.Logger
}

// New creates a Retriever.
func New(store Searcher) *Retriever {
	return &Retriever{store: store, logger: logging.WithComponent("retrieval")}
}

// Retrieve returns every restaurant in the collection passing the filters,
// ordered by semantic similarity to the raw input.
func (r *Retriever) Retrieve(ctx context.Context, q *models.ParsedQuery) ([]models.Candidate, error) {
	if q == nil {
		q = &models.ParsedQuery{}
	}

	hits, err := r.store.Search(ctx, searchText(q), 0)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	out := make([]models.Candidate, 0, len(hits))
	for i := range hits {
		meta := hits[i].Metadata
		if !PassesCuisine(meta, q.Cuisine) ||
			!PassesRating(meta, q.RatingMin) ||
			!PassesDistance(meta, q.DistanceLimitKM, q.UserLocation) ||
			!PassesSpecial(meta, q.SpecialRequirements) {
			continue
		}
		out = append(out, BuildCandidate(hits[i].ID, meta, q.UserLocation))
	}

	r.logger.Debug().Int("scanned", len(hits)).Int("kept", len(out)).Msg("Candidates filtered")
	return out, nil
}

// BuildCandidate converts a metadata row into a pipeline candidate.
// DistanceKM stays nil when either location is unknown.
func BuildCandidate(id string, meta map[string]string, user models.Location) models.Candidate {
	rest := models.RestaurantFromMetadata(meta)
	if rest.ID == "" {
		rest.ID = id
	}

	c := models.Candidate{
		RestaurantID: rest.ID,
		Name:         rest.DisplayName(),
		Address:      rest.Address,
		PriceRange:   rest.PriceRange,
		Cuisine:      lowerList(rest.Cuisines),
		URL:          rest.URL(),
		OpeningHours: rest.OpeningHours,
	}
	if c.Cuisine == nil {
		c.Cuisine = []string{}
	}
	if v, ok := models.ParseFloat(rest.Latitude); ok {
		c.Lat = models.Float(v)
	}
	if v, ok := models.ParseFloat(rest.Longitude); ok {
		c.Lng = models.Float(v)
	}
	if v, ok := models.ParseFloat(rest.AvgRating); ok {
		c.Rating = v
	}
	if d, ok := distanceTo(meta, user); ok {
		c.DistanceKM = models.Float(d)
	}
	return c
}

func searchText(q *models.ParsedQuery) string {
	if s := strings.TrimSpace(q.RawInput); s != "" {
		return s
	}
	if len(q.Cuisine) > 0 {
		return strings.Join(q.Cuisine, ", ")
	}
	return fallbackQuery
}
