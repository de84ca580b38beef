// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package seed

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/platepicker/internal/models"
)

type memUsers struct {
	byID map[string]models.User
}

func (m *memUsers) Upsert(_ context.Context, u *models.User) error {
	m.byID[u.UserID] = *u
	return nil
}

type memLog struct {
	rows []models.Interaction
}

func (m *memLog) InsertMany(_ context.Context, items []models.Interaction) (int, error) {
	m.rows = append(m.rows, items...)
	return len(items), nil
}

func TestFallbackIDs(t *testing.T) {
	ids := FallbackIDs()
	if len(ids) != 200 || ids[0] != "10001" || ids[199] != "10200" {
		t.Errorf("unexpected fallback ids: first=%s last=%s n=%d", ids[0], ids[len(ids)-1], len(ids))
	}
}

func TestUsers(t *testing.T) {
	users := Users(3, "hash", time.Unix(0, 0))
	want := []string{"u1", "u2", "u3"}
	for i, u := range users {
		if u.UserID != want[i] || u.Username != "user"+want[i][1:] || u.PasswordHash != "hash" {
			t.Errorf("user %d = %+v", i, u)
		}
	}
}

func TestInteractions_CountsAndRewards(t *testing.T) {
	users := Users(2, "", time.Now())
	ids := []string{"a", "b", "c"}
	logs := Interactions(users, ids, 150, 200, rand.New(rand.NewSource(42)), time.Now())

	if len(logs) != 400 {
		t.Fatalf("len = %d, want 400", len(logs))
	}
	counts := map[string]int{}
	for _, it := range logs {
		counts[it.UserID+"/"+it.Action]++
		switch it.Action {
		case models.ActionLike:
			if it.Reward != 1.0 {
				t.Fatalf("like reward = %v", it.Reward)
			}
		case models.ActionClick:
			if it.Reward != 0.1 {
				t.Fatalf("click reward = %v", it.Reward)
			}
		}
	}
	for _, u := range []string{"u1", "u2"} {
		if counts[u+"/like"] != 150 || counts[u+"/click"] != 50 {
			t.Errorf("%s: likes=%d clicks=%d", u, counts[u+"/like"], counts[u+"/click"])
		}
	}
}

func TestInteractions_Deterministic(t *testing.T) {
	users := Users(3, "", time.Unix(0, 0))
	ids := FallbackIDs()
	now := time.Unix(1700000000, 0)

	a := Interactions(users, ids, 10, 15, rand.New(rand.NewSource(42)), now)
	b := Interactions(users, ids, 10, 15, rand.New(rand.NewSource(42)), now)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different logs")
	}
	c := Interactions(users, ids, 10, 15, rand.New(rand.NewSource(7)), now)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical logs")
	}
}

func TestSeeder_Run_FallbackIDs(t *testing.T) {
	users := &memUsers{byID: map[string]models.User{}}
	log := &memLog{}

	opts := DefaultOptions()
	opts.CSVPath = filepath.Join(t.TempDir(), "missing.csv")
	opts.Users = 4
	opts.Cost = bcrypt.MinCost

	report, err := New(users, log).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.Synthetic || report.Restaurants != 200 {
		t.Errorf("expected synthetic ids, got %+v", report)
	}
	if report.Users != 4 || report.Interactions != 800 || len(log.rows) != 800 {
		t.Errorf("unexpected report %+v (rows %d)", report, len(log.rows))
	}
	u, ok := users.byID["u4"]
	if !ok {
		t.Fatal("u4 not upserted")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pass123")); err != nil {
		t.Errorf("password hash does not verify: %v", err)
	}
}

func TestSeeder_Run_CatalogIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foody.csv")
	csv := "name,detail_url\nA,https://www.foody.vn/da-nang/a-101\nB,https://www.foody.vn/da-nang/b-202\nA2,https://www.foody.vn/da-nang/a-101\n"
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}

	log := &memLog{}
	opts := DefaultOptions()
	opts.CSVPath = path
	opts.Users = 1
	opts.Likes, opts.Total = 5, 5
	opts.Cost = bcrypt.MinCost

	report, err := New(&memUsers{byID: map[string]models.User{}}, log).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Synthetic || report.Restaurants != 2 {
		t.Fatalf("expected 2 catalog ids, got %+v", report)
	}
	for _, it := range log.rows {
		if it.RestaurantID != "101" && it.RestaurantID != "202" {
			t.Errorf("unexpected restaurant id %q", it.RestaurantID)
		}
	}
}

func TestSeeder_Run_RejectsZeroUsers(t *testing.T) {
	opts := DefaultOptions()
	opts.Users = 0
	if _, err := New(&memUsers{}, &memLog{}).Run(context.Background(), opts); err == nil {
		t.Error("expected error")
	}
}
