// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Rebuilder is the slice of the recommendation engine the service needs.
// Keeping it an interface lets tests supply a fake without standing up a
// catalog.
type Rebuilder interface {
	// EnsureBuilt builds the index if no build has succeeded yet.
	EnsureBuilt(ctx context.Context) error

	// ForceRetrain rebuilds the index from a fresh catalog snapshot.
	ForceRetrain(ctx context.Context) error
}

// RebuildConfig holds configuration for the rebuild service.
type RebuildConfig struct {
	// BuildOnStartup triggers an index build when the service starts.
	BuildOnStartup bool

	// RebuildInterval is how often to retrain the index.
	// Defaults to 24h when not positive.
	RebuildInterval time.Duration

	// RebuildTimeout bounds a single rebuild. Defaults to 10m when not
	// positive.
	RebuildTimeout time.Duration
}

// RebuildService keeps the recommendation index fresh under Suture
// supervision: one build on startup, then periodic retrains. A failed
// rebuild is logged and retried on the next tick; the engine keeps
// serving from its previous index meanwhile.
type RebuildService struct {
	engine Rebuilder
	config RebuildConfig
	logger zerolog.Logger
	name   string
}

// NewRebuildService creates a rebuild service around the given engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRebuildService(engine Rebuilder, cfg RebuildConfig, logger zerolog.Logger) *RebuildService {
	return &RebuildService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "rebuild").Logger(),
		name:   "rebuild-service",
	}
}

// Serve implements the suture.Service interface. It runs until the
// context is canceled.
func (s *RebuildService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("build_on_startup", s.config.BuildOnStartup).
		Dur("rebuild_interval", s.config.RebuildInterval).
		Msg("rebuild service starting")

	if s.config.BuildOnStartup {
		if err := s.run(ctx, s.engine.EnsureBuilt); err != nil {
			s.logger.Warn().Err(err).Msg("startup build failed (will retry on schedule)")
		}
	}

	interval := s.config.RebuildInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("rebuild service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled rebuild triggered")
			if err := s.run(ctx, s.engine.ForceRetrain); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled rebuild failed")
			}
		}
	}
}

// run executes one build under the configured timeout.
func (s *RebuildService) run(ctx context.Context, build func(context.Context) error) error {
	timeout := s.config.RebuildTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	buildCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := build(buildCtx); err != nil {
		return err
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("index rebuild complete")
	return nil
}

// String returns the service name for logging.
func (s *RebuildService) String() string {
	return s.name
}
