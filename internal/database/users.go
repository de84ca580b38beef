// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/platepicker/internal/models"
)

// Users is the accounts repository.
type Users struct {
	coll *mongo.Collection
}

// FindByUsername returns ErrNotFound when no account matches.
func (u *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := u.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &user, nil
}

// Count returns the number of accounts.
func (u *Users) Count(ctx context.Context) (int64, error) {
	n, err := u.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Insert adds a new account. A taken username or id yields ErrDuplicate.
func (u *Users) Insert(ctx context.Context, user *models.User) error {
	if _, err := u.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", translateWriteError(err))
	}
	return nil
}

// Upsert replaces the account with the same user_id or inserts it.
func (u *Users) Upsert(ctx context.Context, user *models.User) error {
	_, err := u.coll.ReplaceOne(ctx,
		bson.M{"user_id": user.UserID},
		user,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", user.UserID, translateWriteError(err))
	}
	return nil
}

// SetPasswordHash stores hash and drops any legacy plaintext password.
func (u *Users) SetPasswordHash(ctx context.Context, username, hash string) error {
	res, err := u.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"password_hash": hash}, "$unset": bson.M{"password": ""}},
	)
	if err != nil {
		return fmt.Errorf("update password for %q: %w", username, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
