// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package logging provides zerolog-based structured logging for Filmatlas.
//
// Components take a zerolog.Logger and tag themselves with a "component"
// field. Build one with New and hand it down:
//
//	logger := logging.New(logging.Config{Level: "debug"})
//	engine, err := recommend.NewEngine(source, nil, logger)
//
// A global logger is also kept for code without an injected logger; it is
// configured via Init and read via Logger.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info.
	Level string `json:"level"`

	// Format is the output format: json or console.
	// Default: json.
	Format string `json:"format"`

	// Caller includes caller file and line in log events.
	// Default: false.
	Caller bool `json:"caller"`

	// Output is the log writer. Default: os.Stderr. Not configurable from
	// files or the environment.
	Output io.Writer `json:"-"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Caller: false,
	}
}

// New builds a logger from the configuration. Empty fields take defaults.
func New(cfg Config) zerolog.Logger {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
		}
	}

	logger := zerolog.New(output).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	if cfg.Caller {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// parseLevel converts a string level to zerolog.Level. Unknown levels fall
// back to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

var (
	global   = New(DefaultConfig())
	globalMu sync.RWMutex
)

// Init reconfigures the global logger. Safe to call more than once.
func Init(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = New(cfg)
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}
