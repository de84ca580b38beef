// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package recommend orchestrates the restaurant recommendation pipeline.
//
// A request flows through these stages:
//
//  1. the LLM input parser turns free text and GPS into a ParsedQuery
//  2. a non-blocking retrain check runs against the interaction log
//  3. retrieval reads and filters the vector store
//  4. the heuristic reranker trims the list to the candidate pool
//  5. collaborative filtering reranks for a known user, preferring the
//     trained ALS snapshot and falling back to online user/user CF
//  6. the shared LinUCB bandit picks the final top_k
//  7. the answer formatter renders the Vietnamese reply
//
// Training state lives in the badger model store:
//
//	cf_als     ALS factor snapshot, versioned
//	cf_meta    {trained_pos_count} retrain watermark
//	bandit     LinUCB state, rewritten after each reward
//
// The CF scorer swaps snapshots atomically and the retrainer allows one run
// at a time, so requests never wait on training.
package recommend
