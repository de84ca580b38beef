// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package algorithms implements the scoring models behind restaurant
// reranking.
//
// Collaborative filtering:
//   - ALS: implicit-feedback matrix factorization trained offline or in the
//     background from the interaction log
//   - OnlineCF: memory-based user/user Jaccard scorer used while no trained
//     model exists
//
// Contextual bandit:
//   - LinUCB: a shared-weight linear UCB with a diagonal covariance, fed by
//     five context features per candidate
//
// Models are keyed by string user and restaurant ids. A trained FactorModel
// is immutable; LinUCB scores under a shared lock and updates under an
// exclusive one.
package algorithms
