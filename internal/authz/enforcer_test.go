// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/platepicker/internal/auth"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(EnforcerConfig{AdminUsernames: []string{"boss", " "}, CacheSize: 64})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return e
}

func TestEnforceUser(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		name     string
		username string
		role     string
		object   string
		action   string
		want     bool
	}{
		{"user recommends", "user1", "user", "/api/v1/recommend", "write", true},
		{"empty role defaults to user", "user1", "", "/api/v1/track", "write", true},
		{"user cannot retrain", "user1", "user", "/api/v1/admin/retrain", "write", false},
		{"user cannot read model", "user1", "user", "/api/v1/admin/model", "read", false},
		{"admin role retrains", "op", "admin", "/api/v1/admin/retrain", "write", true},
		{"admin inherits user", "op", "admin", "/api/v1/recommend", "write", true},
		{"configured admin", "boss", "user", "/api/v1/admin/model", "read", true},
		{"unknown path", "op", "admin", "/api/v1/other", "read", false},
		{"unknown role", "x", "guest", "/api/v1/recommend", "write", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EnforceUser(tt.username, tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatalf("EnforceUser() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EnforceUser() = %v, want %v", got, tt.want)
			}
			// A second call is served from the cache with the same answer.
			again, _ := e.EnforceUser(tt.username, tt.role, tt.object, tt.action)
			if again != got {
				t.Errorf("cached decision = %v, want %v", again, got)
			}
		})
	}
}

func TestEnforceUser_RoleNamedAccounts(t *testing.T) {
	// No configured admins: accounts named after roles get nothing extra.
	e, err := NewEnforcer(EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	for _, username := range []string{"admin", "user"} {
		allowed, err := e.EnforceUser(username, "user", "/api/v1/admin/retrain", "write")
		if err != nil {
			t.Fatalf("EnforceUser(%q) error = %v", username, err)
		}
		if allowed {
			t.Errorf("EnforceUser(%q) reached an admin route with role user", username)
		}
	}

	// A configured admin named "user" must not turn the user role into admin.
	e, err = NewEnforcer(EnforcerConfig{AdminUsernames: []string{"user"}})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if allowed, _ := e.EnforceUser("user1", "user", "/api/v1/admin/model", "read"); allowed {
		t.Error("every user became admin")
	}
	if allowed, _ := e.EnforceUser("user", "user", "/api/v1/admin/model", "read"); !allowed {
		t.Error("configured admin denied")
	}
}

func TestLoadPolicy_Malformed(t *testing.T) {
	e := newTestEnforcer(t)
	if err := loadPolicy(e.enforcer, "p, only-two"); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestMiddleware(t *testing.T) {
	mw := NewMiddleware(newTestEnforcer(t), nil)
	h := mw.AuthorizeRequest(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	tests := []struct {
		name   string
		claims *auth.Claims
		method string
		path   string
		want   int
	}{
		{"no session", nil, http.MethodPost, "/api/v1/recommend", http.StatusUnauthorized},
		{"user allowed", &auth.Claims{Username: "u", Role: "user"}, http.MethodPost, "/api/v1/recommend", http.StatusAccepted},
		{"user forbidden", &auth.Claims{Username: "u", Role: "user"}, http.MethodPost, "/api/v1/admin/retrain", http.StatusForbidden},
		{"admin allowed", &auth.Claims{Username: "a", Role: "admin"}, http.MethodGet, "/api/v1/admin/model", http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.claims != nil {
				req = req.WithContext(auth.ContextWithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
