// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package metrics declares the Prometheus collectors exposed on /metrics
// and small helpers for recording into them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// LLM Metrics
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of LLM provider calls",
		},
		[]string{"operation", "status"}, // operation: "chat", "embed"
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "LLM provider call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60},
		},
		[]string{"operation"},
	)

	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation pipeline runs",
		},
		[]string{"status", "cf_source"}, // cf_source: "model", "online", "none"
	)

	RecommendCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates",
			Help:    "Number of candidates at each pipeline stage",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"stage"}, // "retrieved", "heuristic", "cf", "bandit"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "End-to-end recommendation pipeline duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Collaborative Filtering Metrics
	CFRetrainTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_retrain_total",
			Help: "Total number of CF retrain attempts",
		},
		[]string{"status"}, // "success", "error", "skipped", "busy"
	)

	CFRetrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cf_retrain_duration_seconds",
			Help:    "CF training duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
	)

	CFModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cf_model_version",
			Help: "Version of the CF model currently served",
		},
	)

	// Interaction and Bandit Metrics
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of interactions written to the log",
		},
		[]string{"action"},
	)

	BanditUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bandit_updates_total",
			Help: "Total number of rewards folded into the bandit",
		},
	)

	// Ingestion Metrics
	IngestDocuments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_documents_total",
			Help: "Total number of restaurant documents processed by ingestion",
		},
		[]string{"result"}, // "ingested", "skipped", "failed"
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published to the bus",
		},
		[]string{"topic", "status"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Total number of events processed by router handlers",
		},
		[]string{"handler", "status"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLLMCall records one provider call and its outcome.
func RecordLLMCall(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	LLMRequestsTotal.WithLabelValues(operation, status).Inc()
	LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRecommendation records a pipeline run.
func RecordRecommendation(cfSource string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RecommendRequestsTotal.WithLabelValues(status, cfSource).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordStage records how many candidates left a pipeline stage.
func RecordStage(stage string, n int) {
	RecommendCandidates.WithLabelValues(stage).Observe(float64(n))
}

// RecordRetrain records a finished training run.
func RecordRetrain(duration time.Duration, version int, err error) {
	if err != nil {
		CFRetrainTotal.WithLabelValues("error").Inc()
		return
	}
	CFRetrainTotal.WithLabelValues("success").Inc()
	CFRetrainDuration.Observe(duration.Seconds())
	CFModelVersion.Set(float64(version))
}

// RecordEventPublish records a publish attempt on topic.
func RecordEventPublish(topic string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	EventsPublished.WithLabelValues(topic, status).Inc()
}

// RecordEventHandled records a router handler outcome.
func RecordEventHandled(handler string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	EventsHandled.WithLabelValues(handler, status).Inc()
}

// RecordBreakerTransition updates breaker gauges on a state change. States
// are the gobreaker names: "closed", "half-open", "open".
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// StatusLabel converts an HTTP status code to its label value.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}
