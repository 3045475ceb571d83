// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package service provides Suture service wrappers around the
// recommendation engine, keeping the index fresh without the caller
// managing goroutines. The rebuild service runs an initial build on
// startup and retrains on a fixed interval; under a suture.Supervisor it
// restarts automatically if it ever returns.
package service
