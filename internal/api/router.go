// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/platepicker/internal/authz"
	"github.com/tomtom215/platepicker/internal/middleware"
)

// slowRequest is the access log warning threshold. The chat pipeline makes
// LLM calls, so it is generous.
const slowRequest = 10 * time.Second

// Router wires handlers to routes.
type Router struct {
	handler *Handler
	chiMW   *ChiMiddleware
	authz   *authz.Middleware
}

// NewRouter creates a router. enforcer guards the JSON API.
func NewRouter(handler *Handler, mw *ChiMiddleware, enforcer *authz.Enforcer) *Router {
	deny := func(w http.ResponseWriter, r *http.Request, status int, message string) {
		code := ErrCodeForbidden
		switch {
		case status == http.StatusUnauthorized:
			code = ErrCodeUnauthorized
		case status >= http.StatusInternalServerError:
			code = ErrCodeInternalError
		}
		WriteError(w, r, status, code, message)
	}
	return &Router{
		handler: handler,
		chiMW:   mw,
		authz:   authz.NewMiddleware(enforcer, deny),
	}
}

// SetupChi builds the http.Handler.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMW.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(slowRequest))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Not found")
	})

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(router.chiMW.RateLimit())
		r.Use(chimiddleware.Compress(5, "text/html"))

		r.Get("/", h.Home)
		r.Get("/login", h.LoginPage)
		r.Get("/register", h.RegisterPage)
		r.Get("/logout", h.Logout)
		r.Get("/chat", h.ChatPage)
		r.Post("/chat", h.Chat)
		r.Post("/track", h.TrackForm)

		r.With(router.chiMW.RateLimitAuth()).Post("/login", h.Login)
		r.With(router.chiMW.RateLimitAuth()).Post("/register", h.Register)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMW.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMW.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(h.deps.JWT.RequireSession(func(w http.ResponseWriter, r *http.Request) {
			WriteError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required")
		}))
		r.Use(router.authz.AuthorizeRequest)

		r.Post("/recommend", h.Recommend)
		r.Post("/track", h.Track)
		r.Post("/admin/retrain", h.AdminRetrain)
		r.Get("/admin/model", h.AdminModel)
	})

	return r
}
