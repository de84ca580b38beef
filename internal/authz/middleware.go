// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package authz

import (
	"net/http"

	"github.com/tomtom215/platepicker/internal/auth"
	"github.com/tomtom215/platepicker/internal/logging"
)

// DenyFunc writes the rejection response with status.
type DenyFunc func(w http.ResponseWriter, r *http.Request, status int, message string)

// Middleware authorizes requests by path and method. It must run after
// auth.RequireSession.
type Middleware struct {
	enforcer *Enforcer
	deny     DenyFunc
}

// NewMiddleware creates the middleware. A nil deny falls back to http.Error.
func NewMiddleware(enforcer *Enforcer, deny DenyFunc) *Middleware {
	if deny == nil {
		deny = func(w http.ResponseWriter, _ *http.Request, status int, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{enforcer: enforcer, deny: deny}
}

// AuthorizeRequest derives the action from the HTTP method and the object
// from the request path.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.ClaimsFromContext(r.Context())
		if claims == nil {
			m.deny(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		action := methodToAction(r.Method)
		allowed, err := m.enforcer.EnforceUser(claims.Username, claims.Role, r.URL.Path, action)
		if err != nil {
			Decisions.WithLabelValues(action, "error").Inc()
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			m.deny(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !allowed {
			Decisions.WithLabelValues(action, "denied").Inc()
			m.deny(w, r, http.StatusForbidden, "Insufficient permissions")
			return
		}

		Decisions.WithLabelValues(action, "allowed").Inc()
		next.ServeHTTP(w, r)
	})
}
