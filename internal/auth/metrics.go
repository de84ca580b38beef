// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts password logins.
	// Labels:
	//   - outcome: "success", "failure", "error"
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total number of password login attempts",
		},
		[]string{"outcome"},
	)

	// Registrations counts account creation attempts.
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of account registrations",
		},
		[]string{"outcome"},
	)

	// PasswordUpgrades counts legacy plaintext passwords replaced by a hash.
	PasswordUpgrades = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_password_upgrades_total",
			Help: "Total number of legacy passwords rehashed on login",
		},
	)
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case isUserError(err):
		return "failure"
	default:
		return "error"
	}
}
