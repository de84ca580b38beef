// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package config loads PlatePicker configuration.
//
// Sources are layered with Koanf v2, lowest priority first:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/platepicker/config.yaml)
//  3. A .env file in the working directory (DOTENV_PATH overrides the path)
//  4. Process environment
//
// Environment names follow the deployment conventions of the service:
// OPENAI_API_KEY, MONGODB_URI, MONGODB_DB, HTTP_HOST, HTTP_PORT and so on.
// See envMappings in koanf.go for the full table.
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Mongo       MongoConfig       `koanf:"mongo"`
	LLM         LLMConfig         `koanf:"llm"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Ingest      IngestConfig      `koanf:"ingest"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Events      EventsConfig      `koanf:"events"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// MongoConfig points at the document database holding users and interactions.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// LLMConfig configures the OpenAI-compatible chat and embedding endpoints.
type LLMConfig struct {
	APIKey         string        `koanf:"api_key"`
	BaseURL        string        `koanf:"base_url"` // empty uses the provider default
	ChatModel      string        `koanf:"chat_model"`
	EmbeddingModel string        `koanf:"embedding_model"`
	Timeout        time.Duration `koanf:"timeout"`

	// Circuit breaker around every outbound call.
	BreakerMaxRequests uint32        `koanf:"breaker_max_requests"`
	BreakerInterval    time.Duration `koanf:"breaker_interval"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
	BreakerFailures    uint32        `koanf:"breaker_failures"`
}

// VectorStoreConfig locates the persistent restaurant embeddings.
type VectorStoreConfig struct {
	Path       string `koanf:"path"`
	Collection string `koanf:"collection"`
	Compress   bool   `koanf:"compress"`
}

// IngestConfig tunes the embedding ingestion utility.
type IngestConfig struct {
	CSVPath       string  `koanf:"csv_path"`
	Concurrency   int     `koanf:"concurrency"`
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`
	BatchSize     int     `koanf:"batch_size"`
}

// RecommendConfig controls the recommendation pipeline and CF training.
type RecommendConfig struct {
	TopK             int     `koanf:"top_k"`
	CandidatePool    int     `koanf:"candidate_pool"` // 0 keeps every retrieved candidate
	DefaultLatitude  float64 `koanf:"default_latitude"`
	DefaultLongitude float64 `koanf:"default_longitude"`

	ModelPath        string        `koanf:"model_path"` // badger directory for CF and bandit state
	RetrainThreshold int           `koanf:"retrain_threshold"`
	RetrainInterval  time.Duration `koanf:"retrain_interval"` // 0 disables the periodic retrain service
	TrainOnStartup   bool          `koanf:"train_on_startup"`
	TrainTimeout     time.Duration `koanf:"train_timeout"`

	FeatureCacheSize int           `koanf:"feature_cache_size"`
	FeatureCacheTTL  time.Duration `koanf:"feature_cache_ttl"`

	ALS    ALSConfig    `koanf:"als"`
	Bandit BanditConfig `koanf:"bandit"`
}

// ALSConfig holds hyperparameters for implicit ALS training.
type ALSConfig struct {
	Factors        int     `koanf:"factors"`
	Iterations     int     `koanf:"iterations"`
	Regularization float64 `koanf:"regularization"`
	Alpha          float64 `koanf:"alpha"`
	NumWorkers     int     `koanf:"num_workers"` // 0 = runtime.NumCPU()
}

// BanditConfig holds LinUCB settings.
type BanditConfig struct {
	Alpha   float64 `koanf:"alpha"`
	Persist bool    `koanf:"persist"`
}

// EventsConfig selects the interaction event bus backend.
type EventsConfig struct {
	Backend       string        `koanf:"backend"` // memory or nats
	NATSURL       string        `koanf:"nats_url"`
	NATSEmbedded  bool          `koanf:"nats_embedded"`
	NATSPort      int           `koanf:"nats_port"` // -1 picks a random port
	NATSStoreDir  string        `koanf:"nats_store_dir"`
	Subscribers   int           `koanf:"subscribers"`
	BufferSize    int64         `koanf:"buffer_size"`
	RetryCount    int           `koanf:"retry_count"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	CloseTimeout  time.Duration `koanf:"close_timeout"`
}

// SecurityConfig holds session, authorization and rate limit settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	CookieSecure      bool          `koanf:"cookie_secure"`
	AdminUsernames    []string      `koanf:"admin_usernames"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether production-only checks apply.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
