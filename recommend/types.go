// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import "time"

// Provenance tags how a recommendation was found.
type Provenance string

const (
	// ProvenanceTitleMatch marks a lexical title match. Its score is the
	// fixed lexical match score, intentionally below 1.0: only true
	// self-identity in the vector space scores 1.0.
	ProvenanceTitleMatch Provenance = "exact_title_match"

	// ProvenanceSemantic marks a vector-space nearest-neighbor match.
	ProvenanceSemantic Provenance = "semantic"

	// ProvenanceTrending marks an entry from the rating-derived fallback
	// ranking; its score is a trending score, not a similarity.
	ProvenanceTrending Provenance = "trending"
)

// Recommendation is one ranked result. It is constructed fresh per query
// and never persisted.
type Recommendation struct {
	// MovieID is the catalog id of the recommended movie.
	MovieID int `json:"movie_id"`

	// Title is the movie title.
	Title string `json:"title"`

	// Genre is the movie's genre field, empty if the catalog has none.
	Genre string `json:"genre"`

	// Rating is the critic rating, 0 if the catalog has none.
	Rating float64 `json:"rating"`

	// ReleaseDate is the movie's release date.
	ReleaseDate time.Time `json:"release_date"`

	// Score is the similarity score in [0, 1]; 1 means identical.
	// For trending results it is the composite trending score instead.
	Score float64 `json:"similarity_score"`

	// Source tags which retrieval phase produced this result.
	Source Provenance `json:"source"`
}

// BuildStatus describes the observable index lifecycle.
type BuildStatus struct {
	// Built reports whether a model is currently available.
	Built bool `json:"built"`

	// Version increments on every successful build.
	Version int `json:"version"`

	// BuiltAt is when the current model finished building.
	BuiltAt time.Time `json:"built_at"`

	// LastBuildDurationMS is how long the last successful build took.
	LastBuildDurationMS int64 `json:"last_build_duration_ms"`

	// DocCount is the number of indexed movies.
	DocCount int `json:"doc_count"`

	// VocabSize is the number of retained vocabulary terms.
	VocabSize int `json:"vocab_size"`

	// SkippedRows is the number of malformed catalog rows skipped during
	// the last build.
	SkippedRows int `json:"skipped_rows"`

	// LastError holds the last build failure, if any.
	LastError string `json:"last_error,omitempty"`
}
