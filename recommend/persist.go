// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"context"
	"fmt"

	"github.com/filmatlas/filmatlas/recommend/storage"
	"github.com/filmatlas/filmatlas/recommend/vectorindex"
)

// SaveSnapshot persists the current index to the store. Returns
// ErrNotBuilt if no build has succeeded yet.
func (e *Engine) SaveSnapshot(ctx context.Context, store *storage.Store) error {
	m := e.model.Load()
	if m == nil {
		return ErrNotBuilt
	}

	snap := &storage.Snapshot{
		Version:    m.version,
		BuiltAt:    m.builtAt,
		Entries:    m.entries,
		Vectorizer: m.vectors.State(),
	}
	if err := store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	e.logger.Info().
		Int("version", m.version).
		Int("docs", len(m.entries)).
		Msg("index snapshot saved")
	return nil
}

// LoadSnapshot restores an index from the store, replacing the current one
// without refitting. Version 0 loads the latest snapshot. The restored
// index serves queries exactly as the original build did.
func (e *Engine) LoadSnapshot(ctx context.Context, store *storage.Store, version int) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	snap, err := store.Load(ctx, version)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	vectors, err := vectorindex.FromState(snap.Vectorizer)
	if err != nil {
		return fmt.Errorf("restore vectorizer: %w", err)
	}
	if vectors.Rows() != len(snap.Entries) {
		return fmt.Errorf("corrupt snapshot: %d vectors for %d entries", vectors.Rows(), len(snap.Entries))
	}
	if len(snap.Entries) == 0 {
		return ErrEmptyCatalog
	}

	e.model.Store(newIndexModel(snap.Entries, vectors, snap.Version, snap.BuiltAt))
	e.setStatus(BuildStatus{
		Built:     true,
		Version:   snap.Version,
		BuiltAt:   snap.BuiltAt,
		DocCount:  len(snap.Entries),
		VocabSize: vectors.VocabSize(),
	})

	e.logger.Info().
		Int("version", snap.Version).
		Int("docs", len(snap.Entries)).
		Msg("index snapshot restored")
	return nil
}
