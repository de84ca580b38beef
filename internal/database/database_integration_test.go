// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

//go:build integration

package database

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/testinfra"
)

func setupMongo(t *testing.T) *DB {
	t.Helper()
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, container) })

	db, err := Connect(ctx, &config.MongoConfig{
		URI:            container.URI,
		Database:       "platepicker_test",
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close(ctx) })
	return db
}

func TestUsers_Integration(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	users := db.Users()

	if _, err := users.FindByUsername(ctx, "user1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	u := &models.User{UserID: "u1", Username: "user1", Password: "pass123", Role: models.RoleUser}
	if err := users.Upsert(ctx, u); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := users.Insert(ctx, &models.User{UserID: "u2", Username: "user1"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate username should fail with ErrDuplicate, got %v", err)
	}

	if err := users.SetPasswordHash(ctx, "user1", "$2a$10$hash"); err != nil {
		t.Fatalf("SetPasswordHash() error = %v", err)
	}
	got, err := users.FindByUsername(ctx, "user1")
	if err != nil {
		t.Fatal(err)
	}
	if got.PasswordHash != "$2a$10$hash" || got.Password != "" {
		t.Errorf("legacy password should be replaced: %+v", got)
	}

	n, err := users.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count() = %d, %v", n, err)
	}
}

func TestInteractions_Integration(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()
	log := db.Interactions()

	items := make([]models.Interaction, 0, 2100)
	for i := 0; i < 2100; i++ {
		reward := 0.0
		if i%3 == 0 {
			reward = 1.0
		}
		items = append(items, models.Interaction{
			UserID:       "u" + strconv.Itoa(i%7),
			RestaurantID: strconv.Itoa(i),
			Action:       models.ActionImpression,
			Reward:       reward,
		})
	}

	written, err := log.InsertMany(ctx, items)
	if err != nil || written != 2100 {
		t.Fatalf("InsertMany() = %d, %v", written, err)
	}
	if err := log.Insert(ctx, &models.Interaction{UserID: "u9", RestaurantID: "x", Action: models.ActionLike, Reward: 1}); err != nil {
		t.Fatal(err)
	}

	pos, err := log.CountPositive(ctx)
	if err != nil || pos != 701 {
		t.Errorf("CountPositive() = %d, %v", pos, err)
	}

	positive, err := log.Positive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(positive) != 701 || positive[0].Action != "" {
		t.Errorf("Positive() returned %d rows, projection action=%q", len(positive), positive[0].Action)
	}

	all, err := log.All(ctx)
	if err != nil || len(all) != 2101 {
		t.Fatalf("All() = %d, %v", len(all), err)
	}
	if all[0].RestaurantID != "0" || all[2100].RestaurantID != "x" {
		t.Errorf("All() should keep insertion order")
	}

	mine, err := log.ForUser(ctx, "u9")
	if err != nil || len(mine) != 1 {
		t.Errorf("ForUser() = %d, %v", len(mine), err)
	}
}
