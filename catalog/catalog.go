// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package catalog

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Entry is one movie row in a catalog snapshot.
//
// Fields mirror what the catalog collaborator stores. Optional fields use
// zero values rather than pointers: a missing rating is 0, a missing director
// is the empty string. Consumers must treat those as "absent", never as
// errors.
type Entry struct {
	// ID is the unique, stable movie identifier within a snapshot.
	ID int `json:"id"`

	// Title is the movie title.
	Title string `json:"title"`

	// Description is the synopsis. May be empty.
	Description string `json:"description,omitempty"`

	// ReleaseDate is the theatrical release date.
	ReleaseDate time.Time `json:"release_date,omitempty"`

	// Rating is the critic rating on a 0-10 scale. Zero means unrated.
	Rating float64 `json:"rating,omitempty"`

	// Genre is the genre name, possibly a |-delimited list.
	Genre string `json:"genre,omitempty"`

	// Director is the director's name. May be empty.
	Director string `json:"director,omitempty"`

	// Actors is a free-text list of principal actor names. May be empty.
	Actors string `json:"actors,omitempty"`
}

// Genres splits the |-delimited genre field into trimmed names.
// A missing genre yields an empty slice.
func (e Entry) Genres() []string {
	if strings.TrimSpace(e.Genre) == "" {
		return nil
	}

	parts := strings.Split(e.Genre, "|")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// Valid reports whether the entry is well-formed enough to index.
// Rows failing this check are skipped during feature composition.
func (e Entry) Valid() bool {
	return e.ID > 0 && strings.TrimSpace(e.Title) != ""
}

// Source is the read contract with the catalog collaborator.
type Source interface {
	// ListAll returns a consistent snapshot of every movie in the catalog.
	ListAll(ctx context.Context) ([]Entry, error)
}

// MemorySource is a Source backed by a slice. It is used by tests and by
// embedding callers that already hold the catalog in memory.
type MemorySource struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemorySource creates a MemorySource over a copy of entries.
func NewMemorySource(entries []Entry) *MemorySource {
	s := &MemorySource{}
	s.Replace(entries)
	return s
}

// ListAll returns a copied snapshot, so callers can never observe a
// concurrent Replace mid-read.
func (s *MemorySource) ListAll(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]Entry, len(s.entries))
	copy(snapshot, s.entries)
	return snapshot, nil
}

// Replace swaps the catalog contents for a copy of entries.
func (s *MemorySource) Replace(entries []Entry) {
	copied := make([]Entry, len(entries))
	copy(copied, entries)

	s.mu.Lock()
	s.entries = copied
	s.mu.Unlock()
}
