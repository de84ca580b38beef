// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/platepicker/internal/models"
)

// InsertBatchSize caps the documents sent per InsertMany round trip.
const InsertBatchSize = 1000

var positiveFilter = bson.M{"reward": bson.M{"$gt": 0}}

// Interactions is the append-only interaction log.
type Interactions struct {
	coll *mongo.Collection
}

// Insert appends one interaction.
func (r *Interactions) Insert(ctx context.Context, it *models.Interaction) error {
	if _, err := r.coll.InsertOne(ctx, it); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// InsertMany appends items in batches of InsertBatchSize and returns how
// many were written before any error.
func (r *Interactions) InsertMany(ctx context.Context, items []models.Interaction) (int, error) {
	written := 0
	for _, b := range batchBounds(len(items), InsertBatchSize) {
		docs := make([]interface{}, 0, b[1]-b[0])
		for i := b[0]; i < b[1]; i++ {
			docs = append(docs, items[i])
		}
		res, err := r.coll.InsertMany(ctx, docs)
		if err != nil {
			return written, fmt.Errorf("insert interactions [%d:%d]: %w", b[0], b[1], err)
		}
		written += len(res.InsertedIDs)
	}
	return written, nil
}

// CountPositive counts interactions with reward > 0.
func (r *Interactions) CountPositive(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, positiveFilter)
	if err != nil {
		return 0, fmt.Errorf("count positive interactions: %w", err)
	}
	return n, nil
}

// Positive returns user_id, restaurant_id and reward of every interaction
// with reward > 0.
func (r *Interactions) Positive(ctx context.Context) ([]models.Interaction, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 0, "user_id": 1, "restaurant_id": 1, "reward": 1})
	return r.find(ctx, positiveFilter, opts)
}

// All returns the whole log in natural (insertion) order.
func (r *Interactions) All(ctx context.Context) ([]models.Interaction, error) {
	return r.find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 0}))
}

// ForUser returns the log of one user.
func (r *Interactions) ForUser(ctx context.Context, userID string) ([]models.Interaction, error) {
	return r.find(ctx, bson.M{"user_id": userID}, options.Find().SetProjection(bson.M{"_id": 0}))
}

func (r *Interactions) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Interaction, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find interactions: %w", err)
	}
	var out []models.Interaction
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode interactions: %w", err)
	}
	return out, nil
}

// batchBounds splits n items into [start, end) pairs of at most size.
func batchBounds(n, size int) [][2]int {
	if size < 1 {
		size = 1
	}
	out := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
