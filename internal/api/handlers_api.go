// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/platepicker/internal/auth"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/recommend"
	"github.com/tomtom215/platepicker/internal/validation"
)

// ModelStatus is the body of GET /api/v1/admin/model.
type ModelStatus struct {
	Available          bool      `json:"available"`
	Version            int       `json:"version,omitempty"`
	TrainedAt          time.Time `json:"trained_at,omitempty"`
	InteractionCount   int       `json:"interaction_count,omitempty"`
	UserCount          int       `json:"user_count,omitempty"`
	ItemCount          int       `json:"item_count,omitempty"`
	TrainingDurationMS int64     `json:"training_duration_ms,omitempty"`
	Training           bool      `json:"training"`
	Watermark          int64     `json:"trained_positive_count"`
}

// Recommend handles POST /api/v1/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), pipelineTimeout)
	defer cancel()

	res, err := h.deps.Engine.Run(ctx, recommend.Request{
		Message: req.Message,
		Lat:     req.Lat,
		Lng:     req.Lng,
		UserID:  claims.UserID,
		TopK:    req.TopK,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	rw.Success(res)
}

// Track handles POST /api/v1/track.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req TrackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	it, err := h.deps.Recorder.Record(r.Context(), req.Event(claims.UserID))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	rw.Success(it)
}

// AdminRetrain handles POST /api/v1/admin/retrain. Training continues in
// the background; 409 means a run is already active.
func (h *Handler) AdminRetrain(w http.ResponseWriter, r *http.Request) {
	if h.deps.Trainer == nil {
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Collaborative filtering is disabled")
		return
	}
	if !h.deps.Trainer.Start() {
		writeErr(w, r, recommend.ErrTrainingInProgress)
		return
	}
	logging.Ctx(r.Context()).Info().Msg("Retrain requested by admin")
	NewResponseWriter(w, r).Accepted(map[string]bool{"started": true})
}

// AdminModel handles GET /api/v1/admin/model.
func (h *Handler) AdminModel(w http.ResponseWriter, r *http.Request) {
	if h.deps.Model == nil || h.deps.Trainer == nil {
		WriteError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Collaborative filtering is disabled")
		return
	}

	status := ModelStatus{Training: h.deps.Trainer.Running()}
	meta, err := h.deps.Model.Metadata()
	switch {
	case errors.Is(err, recommend.ErrModelNotFound):
	case err != nil:
		writeErr(w, r, err)
		return
	default:
		status.Available = true
		status.Version = meta.Version
		status.TrainedAt = meta.TrainedAt
		status.InteractionCount = meta.InteractionCount
		status.UserCount = meta.UserCount
		status.ItemCount = meta.ItemCount
		status.TrainingDurationMS = meta.TrainingDurationMS
	}

	watermark, err := h.deps.Trainer.Watermark(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	status.Watermark = watermark
	WriteSuccess(w, r, status)
}
