// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package database stores users and the interaction log in MongoDB.
//
// Collections:
//   - users: one document per account, unique on username and user_id
//   - interactions: append-only log of impressions, clicks, likes and
//     dislikes, indexed on user_id and reward
//
// Connect retries the initial ping with exponential backoff so the server can
// start alongside a database container that is still booting.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/logging"
)

// Collection names.
const (
	UsersCollection        = "users"
	InteractionsCollection = "interactions"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("database: not found")

	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("database: duplicate key")
)

// DB wraps the Mongo client and the application database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger

	users        *Users
	interactions *Interactions
}

// connectOptions tunes the startup retry loop.
type connectOptions struct {
	maxTries int
	delay    time.Duration
}

var defaultConnectOptions = connectOptions{maxTries: 3, delay: 500 * time.Millisecond}

// Connect opens the client, pings the primary and creates indexes.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*DB, error) {
	return connect(ctx, cfg, defaultConnectOptions)
}

func connect(ctx context.Context, cfg *config.MongoConfig, opts connectOptions) (*DB, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	logger := logging.WithComponent("database")

	var lastErr error
	for attempt := 0; attempt < opts.maxTries; attempt++ {
		if attempt > 0 {
			delay := opts.delay * time.Duration(1<<uint(attempt-1))
			logger.Warn().Err(lastErr).Int("attempt", attempt+1).Dur("delay", delay).Msg("Retrying mongo ping")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				_ = client.Disconnect(context.Background())
				return nil, ctx.Err()
			}
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo after %d attempts: %w", opts.maxTries, lastErr)
	}

	mdb := client.Database(cfg.Database)
	db := &DB{
		client:       client,
		db:           mdb,
		logger:       logger,
		users:        &Users{coll: mdb.Collection(UsersCollection)},
		interactions: &Interactions{coll: mdb.Collection(InteractionsCollection)},
	}

	if err := db.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info().Str("database", cfg.Database).Msg("Connected to MongoDB")
	return db, nil
}

// EnsureIndexes creates the collection indexes. Existing indexes are left
// untouched.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	userIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.users.coll.Indexes().CreateMany(ctx, userIdx); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	interactionIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "reward", Value: 1}}},
	}
	if _, err := db.interactions.coll.Indexes().CreateMany(ctx, interactionIdx); err != nil {
		return fmt.Errorf("failed to create interaction indexes: %w", err)
	}
	return nil
}

// Ping checks the primary is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (db *DB) Close(ctx context.Context) error {
	if err := db.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongo: %w", err)
	}
	return nil
}

// Users returns the users repository.
func (db *DB) Users() *Users {
	return db.users
}

// Interactions returns the interaction log repository.
func (db *DB) Interactions() *Interactions {
	return db.interactions
}

func translateWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}
