// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/platepicker/internal/auth"
	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/database"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/recommend"
	"github.com/tomtom215/platepicker/internal/tracking"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Recommend = config.RecommendConfig{
		TopK:             5,
		CandidatePool:    50,
		RetrainThreshold: 10,
		TrainTimeout:     time.Minute,
		ALS:              config.ALSConfig{Factors: 8, Iterations: 3, Regularization: 0.1, Alpha: 1, NumWorkers: 2},
		Bandit:           config.BanditConfig{Alpha: 0.5, Persist: true},
		FeatureCacheSize: 10,
		FeatureCacheTTL:  time.Minute,
	}
	cfg.Security = config.SecurityConfig{
		JWTSecret:         "app-test-secret-app-test-secret!!",
		SessionTimeout:    time.Hour,
		RateLimitDisabled: true,
	}
	return cfg
}

func TestEngineConfig(t *testing.T) {
	rc := EngineConfig(testConfig())

	if rc.TopK != 5 || rc.CandidatePool != 50 || rc.RetrainThreshold != 10 {
		t.Errorf("pipeline settings not mapped: %+v", rc)
	}
	if rc.ALS.NumFactors != 8 || rc.ALS.NumIterations != 3 || rc.ALS.NumWorkers != 2 {
		t.Errorf("ALS settings not mapped: %+v", rc.ALS)
	}
	if rc.BanditAlpha != 0.5 || !rc.BanditPersist {
		t.Errorf("bandit settings not mapped: alpha=%v persist=%v", rc.BanditAlpha, rc.BanditPersist)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("mapped config invalid: %v", err)
	}
}

func TestOpenModelStore(t *testing.T) {
	cfg := testConfig()

	store, err := OpenModelStore(cfg)
	if err != nil || store != nil {
		t.Fatalf("empty path: got %v, %v; want nil, nil", store, err)
	}

	cfg.Recommend.ModelPath = filepath.Join(t.TempDir(), "models")
	store, err = OpenModelStore(cfg)
	if err != nil {
		t.Fatalf("OpenModelStore: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNew_RequiresLLMKey(t *testing.T) {
	if _, err := New(context.Background(), testConfig()); !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

type stubParser struct{}

func (stubParser) Parse(_ context.Context, message string, lat, lng *float64) (*models.ParsedQuery, error) {
	return &models.ParsedQuery{RawInput: message, UserLocation: models.Location{Lat: lat, Lng: lng}}, nil
}

type stubRetriever struct{}

func (stubRetriever) Retrieve(_ context.Context, _ *models.ParsedQuery) ([]models.Candidate, error) {
	return []models.Candidate{{RestaurantID: "1", Name: "Phở Hồng"}}, nil
}

type memLog struct{}

func (memLog) Insert(_ context.Context, _ *models.Interaction) error { return nil }

type noUsers struct{}

func (noUsers) FindByUsername(_ context.Context, _ string) (*models.User, error) {
	return nil, database.ErrNotFound
}
func (noUsers) Count(_ context.Context) (int64, error)               { return 0, nil }
func (noUsers) Insert(_ context.Context, _ *models.User) error       { return nil }
func (noUsers) SetPasswordHash(_ context.Context, _, _ string) error { return nil }

func TestHTTPHandler(t *testing.T) {
	cfg := testConfig()
	engine, err := recommend.NewEngine(EngineConfig(cfg), recommend.Deps{
		Parser:    stubParser{},
		Retriever: stubRetriever{},
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	a := &App{
		Config:   cfg,
		Engine:   engine,
		Recorder: tracking.NewRecorder(memLog{}, nil),
		Accounts: auth.NewService(noUsers{}),
	}

	h, err := a.HTTPHandler()
	if err != nil {
		t.Fatalf("HTTPHandler: %v", err)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/health/live", http.StatusOK},
		{"/api/v1/health/ready", http.StatusServiceUnavailable},
		{"/login", http.StatusOK},
		{"/api/v1/admin/model", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}
