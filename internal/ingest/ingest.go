// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package ingest embeds the restaurant catalog into the vector store.
//
// Rows are split into batches that are upserted concurrently, bounded by
// ingest.concurrency. Every embedding request waits on a shared token bucket
// so a large CSV does not trip the provider rate limit.
package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomtom215/platepicker/internal/catalog"
	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/metrics"
	"github.com/tomtom215/platepicker/internal/models"
	"github.com/tomtom215/platepicker/internal/vectorstore"
)

// Upserter is the subset of vectorstore.Store used by ingestion.
type Upserter interface {
	Upsert(ctx context.Context, docs []vectorstore.Document) error
}

// Report summarizes one ingestion run.
type Report struct {
	Rows     int           `json:"rows"`
	Ingested int           `json:"ingested"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// Ingester loads catalog rows into a vector store.
type Ingester struct {
	store       Upserter
	concurrency int
	batchSize   int
	logger      zerolog.Logger
}

// New creates an Ingester. Zero settings fall back to one worker and
// batches of 64.
func New(store Upserter, cfg *config.IngestConfig) *Ingester {
	i := &Ingester{
		store:       store,
		concurrency: cfg.Concurrency,
		batchSize:   cfg.BatchSize,
		logger:      logging.WithComponent("ingest"),
	}
	if i.concurrency < 1 {
		i.concurrency = 1
	}
	if i.batchSize < 1 {
		i.batchSize = 64
	}
	return i
}

// NewLimiter builds the embedding token bucket. A non-positive rate
// disables throttling.
func NewLimiter(cfg *config.IngestConfig) *rate.Limiter {
	if cfg.RatePerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
}

// Throttle wraps embed so each call first waits on limiter.
func Throttle(limiter *rate.Limiter, embed chromem.EmbeddingFunc) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("embedding throttle: %w", err)
		}
		return embed(ctx, text)
	}
}

// Run reads the CSV at path and ingests every usable row.
func (i *Ingester) Run(ctx context.Context, path string) (Report, error) {
	rows, err := catalog.Load(ctx, path)
	if err != nil {
		return Report{}, err
	}
	return i.Ingest(ctx, rows)
}

// Ingest upserts rows. Rows with neither a name nor a branch are skipped.
// The first failing batch cancels the rest.
func (i *Ingester) Ingest(ctx context.Context, rows []models.Restaurant) (Report, error) {
	start := time.Now()
	report := Report{Rows: len(rows)}

	docs := make([]vectorstore.Document, 0, len(rows))
	for idx := range rows {
		if rows[idx].Name == "" && rows[idx].BranchName == "" {
			report.Skipped++
			continue
		}
		docs = append(docs, catalog.Document(&rows[idx]))
	}
	metrics.IngestDocuments.WithLabelValues("skipped").Add(float64(report.Skipped))

	var ingested atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)

	for lo := 0; lo < len(docs); lo += i.batchSize {
		hi := lo + i.batchSize
		if hi > len(docs) {
			hi = len(docs)
		}
		batch := docs[lo:hi]
		g.Go(func() error {
			if err := i.store.Upsert(gctx, batch); err != nil {
				metrics.IngestDocuments.WithLabelValues("failed").Add(float64(len(batch)))
				return err
			}
			n := ingested.Add(int64(len(batch)))
			metrics.IngestDocuments.WithLabelValues("ingested").Add(float64(len(batch)))
			i.logger.Debug().Int64("done", n).Int("total", len(docs)).Msg("Batch ingested")
			return nil
		})
	}

	err := g.Wait()
	report.Ingested = int(ingested.Load())
	report.Duration = time.Since(start)
	if err != nil {
		return report, fmt.Errorf("ingest: %w", err)
	}

	i.logger.Info().
		Int("rows", report.Rows).
		Int("ingested", report.Ingested).
		Int("skipped", report.Skipped).
		Dur("duration", report.Duration).
		Msg("Ingestion complete")
	return report, nil
}
