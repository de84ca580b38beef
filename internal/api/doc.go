// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

/*
Package api serves the PlatePicker web pages and JSON API on a chi router.

Pages (server-rendered, embedded html/template):

	GET  /                 home
	GET  /login, POST /login
	GET  /register, POST /register
	GET  /logout
	GET  /chat, POST /chat  recommendation chat, logs impressions
	POST /track            click/like/dislike from the chat page

JSON API (session cookie plus Casbin authorization):

	POST /api/v1/recommend
	POST /api/v1/track
	POST /api/v1/admin/retrain
	GET  /api/v1/admin/model

Operational:

	GET /api/v1/health/live
	GET /api/v1/health/ready
	GET /metrics

Every JSON response uses the APIResponse envelope. Errors carry a machine
readable code and the request id from the X-Request-ID header.
*/
package api
