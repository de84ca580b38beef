// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/tracking"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// RecommendRequest is the body of POST /api/v1/recommend.
type RecommendRequest struct {
	Message string   `json:"message" validate:"notblank,max=1000"`
	Lat     *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng     *float64 `json:"lng" validate:"omitempty,longitude"`
	TopK    int      `json:"top_k" validate:"omitempty,min=1,max=50"`
}

// TrackRequest is the body of POST /api/v1/track.
type TrackRequest struct {
	RestaurantID string   `json:"restaurant_id" validate:"notblank,max=128"`
	Action       string   `json:"action" validate:"omitempty,max=32"`
	Reward       *float64 `json:"reward" validate:"omitempty,gte=-10,lte=10"`
	Lat          *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng          *float64 `json:"lng" validate:"omitempty,longitude"`
	Intent       string   `json:"intent" validate:"max=64"`
	Cuisine      []string `json:"cuisine" validate:"max=20"`
	PriceMin     *float64 `json:"price_min"`
	PriceMax     *float64 `json:"price_max"`
}

// Event converts the request for the recorder. The action defaults to click.
func (t *TrackRequest) Event(userID string) tracking.Event {
	action := t.Action
	if strings.TrimSpace(action) == "" {
		action = models.ActionClick
	}
	return tracking.Event{
		UserID:       userID,
		RestaurantID: t.RestaurantID,
		Action:       action,
		Reward:       t.Reward,
		Lat:          t.Lat,
		Lng:          t.Lng,
		Intent:       t.Intent,
		Cuisine:      t.Cuisine,
		PriceMin:     t.PriceMin,
		PriceMax:     t.PriceMax,
	}
}

// trackFormEvent reads the form posted by the chat page. Unparseable
// numbers are treated as absent.
func trackFormEvent(r *http.Request, userID string) tracking.Event {
	action := r.PostFormValue("action")
	if strings.TrimSpace(action) == "" {
		action = models.ActionClick
	}
	var cuisine []string
	if c := r.PostFormValue("cuisine"); c != "" {
		cuisine = strings.Split(c, ",")
	}
	return tracking.Event{
		UserID:       userID,
		RestaurantID: r.PostFormValue("restaurant_id"),
		Action:       action,
		Reward:       tracking.ParseFloat(r.PostFormValue("reward")),
		Lat:          tracking.ParseFloat(r.PostFormValue("lat")),
		Lng:          tracking.ParseFloat(r.PostFormValue("lng")),
		Intent:       r.PostFormValue("intent"),
		Cuisine:      cuisine,
		PriceMin:     tracking.ParseFloat(r.PostFormValue("price_min")),
		PriceMax:     tracking.ParseFloat(r.PostFormValue("price_max")),
	}
}

// decodeJSON reads one JSON object from the body, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}
