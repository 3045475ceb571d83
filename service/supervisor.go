// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// SupervisorConfig holds supervisor restart parameters.
type SupervisorConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5.
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30.
	FailureDecay float64

	// FailureBackoff is how long to wait once the threshold is exceeded.
	// Default: 15s.
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s.
	ShutdownTimeout time.Duration
}

// DefaultSupervisorConfig returns suture's documented defaults.
func DefaultSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Supervisor runs the engine's background services under a suture
// supervisor, restarting them on failure with backoff.
type Supervisor struct {
	root   *suture.Supervisor
	logger zerolog.Logger
}

// NewSupervisor creates a supervisor with the given restart parameters.
// Zero-valued fields take defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSupervisor(cfg SupervisorConfig, logger zerolog.Logger) *Supervisor {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5.0
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = 30.0
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = 15 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	supLogger := logger.With().Str("component", "supervisor").Logger()
	root := suture.New("filmatlas", suture.Spec{
		EventHook: func(e suture.Event) {
			evt := supLogger.Warn()
			for k, v := range e.Map() {
				evt = evt.Interface(k, v)
			}
			evt.Msg("supervisor event")
		},
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	})

	return &Supervisor{root: root, logger: supLogger}
}

// Add registers a service with the supervisor.
func (s *Supervisor) Add(svc suture.Service) suture.ServiceToken {
	return s.root.Add(svc)
}

// Remove stops and removes a service by its token.
func (s *Supervisor) Remove(token suture.ServiceToken) error {
	return s.root.Remove(token)
}

// Serve starts the supervisor and blocks until the context is canceled.
func (s *Supervisor) Serve(ctx context.Context) error {
	return s.root.Serve(ctx)
}

// ServeBackground starts the supervisor in a background goroutine. The
// returned channel receives the terminal error when it stops.
func (s *Supervisor) ServeBackground(ctx context.Context) <-chan error {
	return s.root.ServeBackground(ctx)
}
