// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package seed fills MongoDB with demo accounts and a synthetic interaction
// log so collaborative filtering has something to train on.
//
// Restaurant ids are taken from the catalog CSV so the trained factors line
// up with what retrieval returns. The generator is deterministic for a
// given random seed.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/tomtom215/platepicker/internal/auth"
	"github.com/tomtom215/platepicker/internal/catalog"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/tracking"
)

// UserStore upserts accounts. Implemented by *database.Users.
type UserStore interface {
	Upsert(ctx context.Context, user *models.User) error
}

// InteractionStore bulk inserts log rows. Implemented by
// *database.Interactions, which splits the insert into batches of 1000.
type InteractionStore interface {
	InsertMany(ctx context.Context, items []models.Interaction) (int, error)
}

// Options control the generated data.
type Options struct {
	CSVPath  string
	IDLimit  int
	Users    int
	Likes    int
	Total    int
	Password string
	Seed     int64
	Cost     int
}

// DefaultOptions returns the demo data set: 30 users with 150 likes and 50
// clicks each.
func DefaultOptions() Options {
	return Options{
		CSVPath:  "data/foody_page1.csv",
		IDLimit:  400,
		Users:    30,
		Likes:    150,
		Total:    200,
		Password: "pass123",
		Seed:     42,
		Cost:     auth.DefaultBcryptCost,
	}
}

// Report summarizes a seeding run.
type Report struct {
	Users        int
	Interactions int
	Restaurants  int
	Synthetic    bool
}

// FallbackIDs are used when the catalog is missing or empty.
func FallbackIDs() []string {
	ids := make([]string, 200)
	for i := range ids {
		ids[i] = strconv.Itoa(10001 + i)
	}
	return ids
}

// RestaurantIDs returns up to limit catalog ids, or FallbackIDs when the
// CSV cannot be read or has none. The bool reports the fallback.
func RestaurantIDs(ctx context.Context, path string, limit int) ([]string, bool) {
	ids, err := catalog.LoadIDs(ctx, path, limit)
	if err != nil {
		logging.Warn().Err(err).Str("csv", path).Msg("Catalog unavailable, using synthetic restaurant ids")
		return FallbackIDs(), true
	}
	if len(ids) == 0 {
		return FallbackIDs(), true
	}
	return ids, false
}

// Users builds accounts u1..uN named userN, all sharing passwordHash.
func Users(n int, passwordHash string, now time.Time) []models.User {
	users := make([]models.User, n)
	for i := range users {
		num := strconv.Itoa(i + 1)
		users[i] = models.User{
			UserID:       "u" + num,
			Username:     "user" + num,
			PasswordHash: passwordHash,
			Role:         models.RoleUser,
			CreatedAt:    now,
		}
	}
	return users
}

// Interactions generates likes (reward 1.0) then clicks (0.1) per user on
// restaurants drawn from ids by rng. Each user gets total rows, of which
// likes are likes.
func Interactions(users []models.User, ids []string, likes, total int, rng *rand.Rand, now time.Time) []models.Interaction {
	if likes > total {
		total = likes
	}
	ts := now.In(tracking.Vietnam).Format(time.RFC3339)
	out := make([]models.Interaction, 0, len(users)*total)
	for _, u := range users {
		for i := 0; i < total; i++ {
			action, reward := models.ActionLike, 1.0
			if i >= likes {
				action, reward = models.ActionClick, 0.1
			}
			out = append(out, models.Interaction{
				UserID:       u.UserID,
				RestaurantID: ids[rng.Intn(len(ids))],
				Timestamp:    ts,
				Action:       action,
				Reward:       reward,
			})
		}
	}
	return out
}

// Seeder writes generated data to the stores.
type Seeder struct {
	users        UserStore
	interactions InteractionStore
	now          func() time.Time
}

// New creates a Seeder.
func New(users UserStore, interactions InteractionStore) *Seeder {
	return &Seeder{users: users, interactions: interactions, now: time.Now}
}

// Run upserts the accounts and appends the interaction log.
func (s *Seeder) Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Users < 1 {
		return Report{}, fmt.Errorf("seed: users must be positive, got %d", opts.Users)
	}
	ids, synthetic := RestaurantIDs(ctx, opts.CSVPath, opts.IDLimit)

	// One hash for every account; bcrypt at the default cost is slow.
	hash, err := auth.HashPassword(opts.Password, opts.Cost)
	if err != nil {
		return Report{}, err
	}
	now := s.now()
	users := Users(opts.Users, hash, now)
	for i := range users {
		if err := s.users.Upsert(ctx, &users[i]); err != nil {
			return Report{}, err
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // demo data
	logs := Interactions(users, ids, opts.Likes, opts.Total, rng, now)
	written, err := s.interactions.InsertMany(ctx, logs)
	report := Report{
		Users:        len(users),
		Interactions: written,
		Restaurants:  len(ids),
		Synthetic:    synthetic,
	}
	if err != nil {
		return report, err
	}

	logging.Info().
		Int("users", report.Users).
		Int("interactions", report.Interactions).
		Int("restaurants", report.Restaurants).
		Bool("synthetic_ids", synthetic).
		Msg("Seed data written")
	return report, nil
}
