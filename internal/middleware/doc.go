// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package middleware holds the chi-compatible HTTP middleware shared by the
// web pages and the JSON API.
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.AccessLog(time.Second))
//
// RequestID must run first so later middleware and handlers can log with
// logging.Ctx(r.Context()) and get request_id and correlation_id fields.
package middleware
