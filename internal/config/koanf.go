// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/platepicker/config.yaml",
}

const (
	// ConfigPathEnvVar overrides the YAML config file location.
	ConfigPathEnvVar = "CONFIG_PATH"

	// DotEnvPathEnvVar overrides the .env file location.
	DotEnvPathEnvVar = "DOTENV_PATH"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "restaurant_recommendation",
			ConnectTimeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			ChatModel:          "gpt-4o-mini",
			EmbeddingModel:     "text-embedding-3-small",
			Timeout:            30 * time.Second,
			BreakerMaxRequests: 1,
			BreakerInterval:    time.Minute,
			BreakerTimeout:     30 * time.Second,
			BreakerFailures:    5,
		},
		VectorStore: VectorStoreConfig{
			Path:       "chroma/foody",
			Collection: "foody_restaurants",
			Compress:   false,
		},
		Ingest: IngestConfig{
			CSVPath:       "data/foody_page1.csv",
			Concurrency:   4,
			RatePerSecond: 20,
			Burst:         5,
			BatchSize:     64,
		},
		Recommend: RecommendConfig{
			TopK:             5,
			CandidatePool:    50,
			DefaultLatitude:  16.065,
			DefaultLongitude: 108.229,
			ModelPath:        "data/models",
			RetrainThreshold: 10,
			RetrainInterval:  0,
			TrainOnStartup:   false,
			TrainTimeout:     30 * time.Minute,
			FeatureCacheSize: 10000,
			FeatureCacheTTL:  time.Hour,
			ALS: ALSConfig{
				Factors:        64,
				Iterations:     20,
				Regularization: 0.08,
				Alpha:          1.0,
			},
			Bandit: BanditConfig{
				Alpha:   1.0,
				Persist: true,
			},
		},
		Events: EventsConfig{
			Backend:       "memory",
			NATSURL:       "nats://127.0.0.1:4222",
			NATSEmbedded:  false,
			NATSPort:      -1,
			NATSStoreDir:  "data/nats",
			Subscribers:   2,
			BufferSize:    256,
			RetryCount:    3,
			RetryInterval: 100 * time.Millisecond,
			CloseTimeout:  10 * time.Second,
		},
		Security: SecurityConfig{
			SessionTimeout:  24 * time.Hour,
			CookieSecure:    false,
			AdminUsernames:  []string{},
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, an optional
// .env file and the environment, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// loadDotEnv copies .env entries into the process environment without
// overriding variables that are already set.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

var sliceConfigPaths = []string{
	"security.admin_usernames",
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Document database
	"mongodb_uri":             "mongo.uri",
	"mongodb_db":              "mongo.database",
	"mongodb_connect_timeout": "mongo.connect_timeout",

	// LLM provider
	"openai_api_key":         "llm.api_key",
	"openai_base_url":        "llm.base_url",
	"openai_chat_model":      "llm.chat_model",
	"openai_embedding_model": "llm.embedding_model",
	"llm_timeout":            "llm.timeout",
	"llm_breaker_failures":   "llm.breaker_failures",
	"llm_breaker_timeout":    "llm.breaker_timeout",

	// Vector store
	"vectorstore_path":       "vectorstore.path",
	"vectorstore_collection": "vectorstore.collection",
	"vectorstore_compress":   "vectorstore.compress",

	// Ingestion
	"ingest_csv_path":        "ingest.csv_path",
	"ingest_concurrency":     "ingest.concurrency",
	"ingest_rate_per_second": "ingest.rate_per_second",
	"ingest_burst":           "ingest.burst",
	"ingest_batch_size":      "ingest.batch_size",

	// Recommendation pipeline
	"recommend_top_k":              "recommend.top_k",
	"recommend_candidate_pool":     "recommend.candidate_pool",
	"recommend_default_latitude":   "recommend.default_latitude",
	"recommend_default_longitude":  "recommend.default_longitude",
	"recommend_model_path":         "recommend.model_path",
	"cf_retrain_threshold":         "recommend.retrain_threshold",
	"cf_retrain_interval":          "recommend.retrain_interval",
	"cf_train_on_startup":          "recommend.train_on_startup",
	"cf_train_timeout":             "recommend.train_timeout",
	"recommend_feature_cache_size": "recommend.feature_cache_size",
	"recommend_feature_cache_ttl":  "recommend.feature_cache_ttl",
	"cf_als_factors":               "recommend.als.factors",
	"cf_als_iterations":            "recommend.als.iterations",
	"cf_als_regularization":        "recommend.als.regularization",
	"cf_als_alpha":                 "recommend.als.alpha",
	"cf_als_workers":               "recommend.als.num_workers",
	"bandit_alpha":                 "recommend.bandit.alpha",
	"bandit_persist":               "recommend.bandit.persist",

	// Event bus
	"events_backend":        "events.backend",
	"nats_url":              "events.nats_url",
	"nats_embedded":         "events.nats_embedded",
	"nats_port":             "events.nats_port",
	"nats_store_dir":        "events.nats_store_dir",
	"events_subscribers":    "events.subscribers",
	"events_buffer_size":    "events.buffer_size",
	"events_retry_count":    "events.retry_count",
	"events_retry_interval": "events.retry_interval",
	"events_close_timeout":  "events.close_timeout",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"cookie_secure":       "security.cookie_secure",
	"admin_usernames":     "security.admin_usernames",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unknown variables return "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
