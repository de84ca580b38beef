// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package recommend

import (
	"context"

	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/recommend/storage"
)

// Request is one recommendation query.
type Request struct {
	Message string
	Lat     *float64
	Lng     *float64
	UserID  string
	TopK    int
}

// Result is the pipeline output.
type Result struct {
	Parsed      *models.ParsedQuery `json:"parsed"`
	Restaurants []models.Candidate  `json:"restaurants"`
	Answer      string              `json:"answer"`
}

// Parser converts a message and optional GPS into a structured query.
type Parser interface {
	Parse(ctx context.Context, message string, lat, lng *float64) (*models.ParsedQuery, error)
}

// Retriever returns every restaurant passing the query filters.
type Retriever interface {
	Retrieve(ctx context.Context, q *models.ParsedQuery) ([]models.Candidate, error)
}

// InteractionSource reads the interaction log. Implemented by the database
// package.
type InteractionSource interface {
	CountPositive(ctx context.Context) (int64, error)
	Positive(ctx context.Context) ([]models.Interaction, error)
	All(ctx context.Context) ([]models.Interaction, error)
}

// ModelStore persists model snapshots and small JSON documents. Implemented
// by storage.Store.
type ModelStore interface {
	SaveModel(ctx context.Context, name string, data interface{}, meta storage.ModelMetadata) (storage.ModelMetadata, error)
	LoadModel(ctx context.Context, name string, dst interface{}) (storage.ModelMetadata, error)
	ModelVersion(ctx context.Context, name string) (int, error)
	ModelMetadata(ctx context.Context, name string) (storage.ModelMetadata, error)
	PutJSON(ctx context.Context, name string, v interface{}) error
	GetJSON(ctx context.Context, name string, dst interface{}) error
}

// CFMeta is the retrain watermark.
type CFMeta struct {
	TrainedPosCount int64 `json:"trained_pos_count"`
}
