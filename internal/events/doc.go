// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package events carries interaction events between the tracking endpoint
// and the learners that react to them.
//
// Two backends are supported through Watermill:
//
//   - memory: an in-process gochannel pub/sub (default)
//   - nats: core NATS through watermill-nats, either at events.nats_url or
//     on an embedded nats-server when events.nats_embedded is set
//
// The Router wraps a Watermill router with Recoverer and Retry middleware
// and implements suture.Service so the supervisor restarts it on failure.
//
// Handlers:
//
//	bandit-feedback  credits the reward to the bandit context served earlier
//	retrain-check    runs the CF retrain trigger on positive rewards
//
// Publishing goes through a circuit breaker so a dead broker fails fast
// instead of stalling the tracking request.
package events
