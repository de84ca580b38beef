// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package authz decides which signed-in users may reach the JSON API using a
// Casbin RBAC model. The model and policy are embedded; roles are "user" and
// "admin", and admin inherits user. Usernames listed in
// security.admin_usernames are granted admin at startup.
package authz

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/tomtom215/platepicker/internal/cache"
	"github.com/tomtom215/platepicker/internal/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// AdminUsernames are bound to the admin role.
	AdminUsernames []string

	// CacheSize bounds memoized decisions. 0 disables the cache.
	CacheSize int

	// CacheTTL is how long a decision stays cached. Default: 5m
	CacheTTL time.Duration
}

// Enforcer wraps a synced Casbin enforcer with a decision cache.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	cache    *cache.LRU[bool]
}

// NewEnforcer loads the embedded model and policy.
func NewEnforcer(cfg EnforcerConfig) (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}

	for _, name := range cfg.AdminUsernames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := enforcer.AddGroupingPolicy(userSubject(name), models.RoleAdmin); err != nil {
			return nil, fmt.Errorf("failed to grant admin to %q: %w", name, err)
		}
	}

	e := &Enforcer{enforcer: enforcer}
	if cfg.CacheSize > 0 {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		e.cache = cache.NewLRU[bool](cfg.CacheSize, ttl)
	}
	return e, nil
}

// userSubject keeps usernames out of the role namespace, so an account
// named "admin" is not the admin role.
func userSubject(username string) string {
	return "u:" + username
}

// loadPolicy reads "p, sub, obj, act" and "g, user, role" lines.
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		var err error
		switch {
		case parts[0] == "p" && len(parts) == 4:
			_, err = enforcer.AddPolicy(parts[1], parts[2], parts[3])
		case parts[0] == "g" && len(parts) == 3:
			_, err = enforcer.AddGroupingPolicy(parts[1], parts[2])
		default:
			err = fmt.Errorf("malformed line %q", line)
		}
		if err != nil {
			return fmt.Errorf("failed to load policy: %w", err)
		}
	}
	return nil
}

// Enforce reports whether subject (a role, or a username passed through
// userSubject) may perform action on object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	key := subject + "\x00" + object + "\x00" + action
	if e.cache != nil {
		if allowed, ok := e.cache.Get(key); ok {
			return allowed, nil
		}
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	if e.cache != nil {
		e.cache.Add(key, allowed)
	}
	return allowed, nil
}

// EnforceUser checks the username grants first, then the token role.
// An empty role counts as "user".
func (e *Enforcer) EnforceUser(username, role, object, action string) (bool, error) {
	allowed, err := e.Enforce(userSubject(username), object, action)
	if err != nil || allowed {
		return allowed, err
	}
	if role == "" {
		role = models.RoleUser
	}
	return e.Enforce(role, object, action)
}

// methodToAction maps HTTP methods to policy actions.
func methodToAction(method string) string {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return "write"
	default:
		return "read"
	}
}
