// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthLive returns 200 while the process is serving, regardless of
// dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 503 until MongoDB answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbConnected := h.deps.DB != nil && h.deps.DB.Ping(ctx) == nil
	data := map[string]interface{}{
		"database_connected": dbConnected,
		"model_available":    h.modelAvailable(),
		"uptime":             time.Since(h.startTime).Seconds(),
	}
	if !dbConnected {
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusServiceUnavailable,
			ErrCodeServiceUnavailable, "Database is not reachable", data)
		return
	}
	WriteSuccess(w, r, data)
}

func (h *Handler) modelAvailable() bool {
	if h.deps.Model == nil {
		return false
	}
	_, err := h.deps.Model.Metadata()
	return err == nil
}
