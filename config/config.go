// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package config loads application configuration with layered sources:
// built-in defaults, an optional YAML file, then FILMATLAS_* environment
// variables, each layer overriding the previous one.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/filmatlas/filmatlas/logging"
	"github.com/filmatlas/filmatlas/recommend"
	"github.com/filmatlas/filmatlas/service"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/filmatlas/config.yaml",
	"/etc/filmatlas/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "FILMATLAS_CONFIG"

// envPrefix is stripped from environment variables before mapping.
const envPrefix = "FILMATLAS_"

// Config is the full application configuration.
type Config struct {
	// Recommend configures the recommendation engine.
	Recommend recommend.Config `json:"recommend"`

	// Rebuild configures the background rebuild service.
	Rebuild RebuildConfig `json:"rebuild"`

	// Storage configures index snapshot persistence.
	Storage StorageConfig `json:"storage"`

	// Logging configures structured log output.
	Logging logging.Config `json:"logging"`
}

// RebuildConfig configures the background rebuild service.
type RebuildConfig struct {
	// Enabled turns the background rebuild service on.
	Enabled bool `json:"enabled"`

	// BuildOnStartup triggers an index build at service start.
	BuildOnStartup bool `json:"build_on_startup"`

	// Interval is how often the index is retrained.
	Interval time.Duration `json:"interval"`

	// Timeout bounds a single rebuild.
	Timeout time.Duration `json:"timeout"`
}

// StorageConfig configures index snapshot persistence.
type StorageConfig struct {
	// Enabled turns snapshot persistence on.
	Enabled bool `json:"enabled"`

	// Dir is the snapshot directory.
	Dir string `json:"dir"`
}

// defaultConfig returns the built-in defaults, applied before any file or
// environment layer.
func defaultConfig() *Config {
	return &Config{
		Recommend: *recommend.DefaultConfig(),
		Rebuild: RebuildConfig{
			Enabled:        true,
			BuildOnStartup: true,
			Interval:       24 * time.Hour,
			Timeout:        10 * time.Minute,
		},
		Storage: StorageConfig{
			Enabled: false,
			Dir:     "/data/filmatlas/index",
		},
		Logging: logging.DefaultConfig(),
	}
}

// ServiceConfig converts the rebuild section into the service package's
// form.
func (c *RebuildConfig) ServiceConfig() service.RebuildConfig {
	return service.RebuildConfig{
		BuildOnStartup:  c.BuildOnStartup,
		RebuildInterval: c.Interval,
		RebuildTimeout:  c.Timeout,
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// FILMATLAS_* environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "json"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Rebuild.Enabled && c.Rebuild.Interval <= 0 {
		return fmt.Errorf("rebuild.interval must be positive, got %s", c.Rebuild.Interval)
	}
	if c.Storage.Enabled && strings.TrimSpace(c.Storage.Dir) == "" {
		return fmt.Errorf("storage.dir must be set when storage is enabled")
	}
	return nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps FILMATLAS_-stripped variable names to config paths.
// Unmapped variables are ignored so unrelated environment noise cannot
// leak into the configuration.
var envMappings = map[string]string{
	// Feature composition
	"recommend_genre_repeat":       "recommend.features.genre_repeat",
	"recommend_description_repeat": "recommend.features.description_repeat",
	"recommend_director_repeat":    "recommend.features.director_repeat",
	"recommend_actors_repeat":      "recommend.features.actors_repeat",

	// Vectorizer
	"recommend_min_doc_freq":  "recommend.vectorizer.min_doc_freq",
	"recommend_max_doc_ratio": "recommend.vectorizer.max_doc_ratio",
	"recommend_max_features":  "recommend.vectorizer.max_features",
	"recommend_max_ngram":     "recommend.vectorizer.max_ngram",

	// Query ranking
	"recommend_lexical_match_score":        "recommend.lexical.match_score",
	"recommend_lexical_max_matches":        "recommend.lexical.max_matches",
	"recommend_semantic_min_score":         "recommend.semantic.min_score",
	"recommend_semantic_extra_candidates":  "recommend.semantic.extra_candidates",
	"recommend_trending_min_rating":        "recommend.trending.min_rating",
	"recommend_trending_rating_weight":     "recommend.trending.rating_weight",
	"recommend_trending_popularity_weight": "recommend.trending.popularity_weight",
	"recommend_default_k":                  "recommend.limits.default_k",
	"recommend_max_k":                      "recommend.limits.max_k",

	// Rebuild service
	"rebuild_enabled":    "rebuild.enabled",
	"rebuild_on_startup": "rebuild.build_on_startup",
	"rebuild_interval":   "rebuild.interval",
	"rebuild_timeout":    "rebuild.timeout",

	// Snapshot storage
	"storage_enabled": "storage.enabled",
	"storage_dir":     "storage.dir",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransform maps an environment variable to its config path, or "" to
// skip it.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
