// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/platepicker/internal/logging"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session"

// ErrNoSession is returned when the request carries no usable session.
var ErrNoSession = errors.New("auth: no session")

type claimsKey struct{}

// SetSessionCookie writes the HttpOnly session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserFromRequest validates the session cookie of r.
func (m *JWTManager) UserFromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	claims, err := m.ValidateToken(cookie.Value)
	if err != nil {
		return nil, errors.Join(ErrNoSession, err)
	}
	return claims, nil
}

// ContextWithClaims stores claims for downstream handlers.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	ctx = logging.ContextWithUserID(ctx, c.UserID)
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns nil outside RequireSession.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

// RequireSession rejects requests without a valid session by calling deny,
// otherwise attaches the claims to the request context.
func (m *JWTManager) RequireSession(deny func(w http.ResponseWriter, r *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.UserFromRequest(r)
			if err != nil {
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}
