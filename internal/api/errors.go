// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/platepicker/internal/auth"
	"github.com/tomtom215/platepicker/internal/breaker"
	"github.com/tomtom215/platepicker/internal/llm"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/parser"
	"github.com/tomtom215/platepicker/internal/recommend"
	"github.com/tomtom215/platepicker/internal/tracking"
)

// errorStatus maps a pipeline error to an HTTP status and envelope code.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, parser.ErrEmptyMessage), errors.Is(err, tracking.ErrMissingRestaurant),
		errors.Is(err, auth.ErrPasswordMismatch), errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrReservedUsername):
		return http.StatusBadRequest, ErrCodeValidationFailed, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized, err.Error()
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict, ErrCodeConflict, err.Error()
	case breaker.IsUnavailable(err):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Language model temporarily unavailable"
	case errors.Is(err, parser.ErrInvalidResponse), errors.Is(err, llm.ErrEmptyResponse):
		return http.StatusBadGateway, ErrCodeExternalServiceFail, "Language model returned an unusable response"
	case errors.Is(err, recommend.ErrModelNotFound):
		return http.StatusNotFound, ErrCodeNotFound, err.Error()
	case errors.Is(err, recommend.ErrTrainingInProgress):
		return http.StatusConflict, ErrCodeConflict, "A training run is already in progress"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request timed out"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred"
	}
}

// writeErr logs server-side failures and writes the mapped envelope.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	WriteError(w, r, status, code, message)
}
