// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/filmatlas/filmatlas/catalog"
	"github.com/filmatlas/filmatlas/recommend/vectorindex"
	"github.com/filmatlas/filmatlas/textnorm"
)

// Build trigger and query kind labels for metrics.
const (
	triggerLazy   = "lazy"
	triggerForced = "forced"

	kindMovie    = "movie"
	kindQuery    = "query"
	kindTrending = "trending"
)

// Engine answers similarity and trending queries over a catalog snapshot.
// It is safe for concurrent use: the index is an immutable value swapped
// atomically on rebuild, so readers never block behind a build and queries
// in flight keep the index they started with.
type Engine struct {
	config *Config
	logger zerolog.Logger
	source catalog.Source

	// buildMu serializes index builds. Concurrent callers triggering a
	// lazy build block here and reuse the winner's index.
	buildMu sync.Mutex
	model   atomic.Pointer[indexModel]

	statusMu sync.RWMutex
	status   BuildStatus
}

// indexModel is one immutable build of the index. All queries against a
// given model are read-only.
type indexModel struct {
	entries     []catalog.Entry
	byID        map[int]int
	titlesLower []string
	titlesNorm  []string
	vectors     *vectorindex.Model
	version     int
	builtAt     time.Time
}

// NewEngine creates a recommendation engine over the given catalog source.
// The index is not built yet; it builds lazily on first query or explicitly
// via EnsureBuilt.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(source catalog.Source, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if source == nil {
		return nil, errors.New("recommend: catalog source is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		source: source,
	}, nil
}

// EnsureBuilt builds the index if no build has succeeded yet. Concurrent
// callers trigger at most one build; the rest block on it and reuse the
// result.
func (e *Engine) EnsureBuilt(ctx context.Context) error {
	if e.model.Load() != nil {
		return nil
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	// Another caller may have finished the build while we waited.
	if e.model.Load() != nil {
		return nil
	}
	return e.rebuild(ctx, triggerLazy)
}

// ForceRetrain rebuilds the index from a fresh catalog snapshot and swaps
// it in atomically. Readers in flight continue against the old index. On
// failure the old index stays in place.
func (e *Engine) ForceRetrain(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	return e.rebuild(ctx, triggerForced)
}

// rebuild performs one index build. The caller must hold buildMu.
func (e *Engine) rebuild(ctx context.Context, trigger string) error {
	start := time.Now()

	entries, err := e.source.ListAll(ctx)
	if err != nil {
		return e.failBuild(fmt.Errorf("list catalog: %w", err))
	}

	// Malformed rows degrade the catalog, never the build.
	valid := make([]catalog.Entry, 0, len(entries))
	skipped := 0
	for i := range entries {
		if !entries[i].Valid() {
			skipped++
			e.logger.Warn().
				Int("movie_id", entries[i].ID).
				Msg("skipping malformed catalog row")
			continue
		}
		valid = append(valid, entries[i])
	}
	if len(valid) == 0 {
		return e.failBuild(ErrEmptyCatalog)
	}

	docs := make([]string, len(valid))
	for i := range valid {
		docs[i] = ComposeDocument(valid[i], e.config.Features)
	}

	vectors, err := vectorindex.Fit(docs, e.config.Vectorizer)
	if err != nil {
		return e.failBuild(fmt.Errorf("fit vectorizer: %w", err))
	}

	version := 1
	if prev := e.model.Load(); prev != nil {
		version = prev.version + 1
	}
	builtAt := time.Now()
	e.model.Store(newIndexModel(valid, vectors, version, builtAt))

	elapsed := time.Since(start)
	e.setStatus(BuildStatus{
		Built:               true,
		Version:             version,
		BuiltAt:             builtAt,
		LastBuildDurationMS: elapsed.Milliseconds(),
		DocCount:            len(valid),
		VocabSize:           vectors.VocabSize(),
		SkippedRows:         skipped,
	})
	recordBuild(trigger, elapsed.Seconds(), len(valid), vectors.VocabSize(), skipped)

	e.logger.Info().
		Str("trigger", trigger).
		Int("version", version).
		Int("docs", len(valid)).
		Int("vocabulary", vectors.VocabSize()).
		Int("skipped", skipped).
		Dur("elapsed", elapsed).
		Msg("index built")

	return nil
}

// failBuild records a failed build. The previous index, if any, remains
// usable.
func (e *Engine) failBuild(err error) error {
	recordBuildFailure()
	e.logger.Error().Err(err).Msg("index build failed")

	e.statusMu.Lock()
	e.status.LastError = err.Error()
	e.statusMu.Unlock()

	return err
}

// SimilarToMovie returns up to k movies most similar to the given movie,
// ordered by descending similarity with catalog id breaking ties. The
// query movie itself is never in the result. Returns a NotFoundError if
// the id is not in the index.
func (e *Engine) SimilarToMovie(ctx context.Context, movieID, k int) ([]Recommendation, error) {
	start := time.Now()
	k = e.clampK(k)

	if err := e.EnsureBuilt(ctx); err != nil {
		recordQueryError(kindMovie)
		return nil, err
	}
	m := e.model.Load()

	row, ok := m.byID[movieID]
	if !ok {
		recordQueryError(kindMovie)
		return nil, &NotFoundError{MovieID: movieID}
	}

	// k+1 neighbors because the movie is its own nearest neighbor.
	neighbors := m.vectors.NeighborsOfRow(row, k+1)
	candidates := make([]Recommendation, 0, len(neighbors))
	for _, nb := range neighbors {
		if nb.Row == row {
			continue
		}
		candidates = append(candidates, m.recommendation(nb.Row, nb.Similarity, ProvenanceSemantic))
	}

	sortCandidates(candidates)
	result := Dedupe(candidates, k)

	recordQuery(kindMovie, time.Since(start).Seconds())
	e.logger.Debug().
		Int("movie_id", movieID).
		Int("k", k).
		Int("returned", len(result)).
		Msg("similar-movie query")

	return result, nil
}

// ByQuery answers a free-text query in two phases: a lexical scan over
// catalog titles, then vector-space retrieval for the remaining slots.
// A query matching nothing returns an empty result; callers wanting a
// non-empty answer fall back to Trending themselves. Returns
// ErrInvalidQuery if the query normalizes to nothing.
func (e *Engine) ByQuery(ctx context.Context, query string, k int) ([]Recommendation, error) {
	start := time.Now()
	k = e.clampK(k)

	normalized := textnorm.Normalize(query)
	if normalized == "" {
		recordQueryError(kindQuery)
		return nil, ErrInvalidQuery
	}

	if err := e.EnsureBuilt(ctx); err != nil {
		recordQueryError(kindQuery)
		return nil, err
	}
	m := e.model.Load()

	candidates := m.lexicalMatches(query, normalized,
		min(e.config.Lexical.MaxMatches, k), e.config.Lexical.MatchScore)

	if len(candidates) < k {
		candidates = append(candidates, e.semanticMatches(m, query, normalized, k, candidates)...)
	}

	sortCandidates(candidates)
	result := Dedupe(candidates, k)

	if len(result) == 0 {
		recordEmptyQueryResult()
		e.logger.Debug().Str("query", query).Msg("query matched nothing")
	}

	recordQuery(kindQuery, time.Since(start).Seconds())
	return result, nil
}

// semanticMatches runs the vector-space phase of a free-text query. The
// query is vectorized with the fitted vocabulary only; it never refits the
// corpus. Matches below the similarity floor are noise and dropped, as are
// movies the lexical phase already found.
func (e *Engine) semanticMatches(m *indexModel, query, normalized string, k int, lexical []Recommendation) []Recommendation {
	seen := make(map[int]struct{}, len(lexical))
	for _, c := range lexical {
		seen[c.MovieID] = struct{}{}
	}

	// Retrieve a margin beyond the open slots to absorb filtered entries.
	want := k - len(lexical) + e.config.Semantic.ExtraCandidates
	queryVec := m.vectors.Transform(query + " " + normalized)
	neighbors := m.vectors.Neighbors(queryVec, want)

	matches := make([]Recommendation, 0, len(neighbors))
	for _, nb := range neighbors {
		if nb.Similarity <= e.config.Semantic.MinScore {
			continue
		}
		rec := m.recommendation(nb.Row, nb.Similarity, ProvenanceSemantic)
		if _, dup := seen[rec.MovieID]; dup {
			continue
		}
		matches = append(matches, rec)
	}
	return matches
}

// Trending returns the catalog's top k well-rated movies by the weighted
// popularity score.
func (e *Engine) Trending(ctx context.Context, k int) ([]Recommendation, error) {
	start := time.Now()
	k = e.clampK(k)

	if err := e.EnsureBuilt(ctx); err != nil {
		recordQueryError(kindTrending)
		return nil, err
	}
	m := e.model.Load()

	result := Dedupe(trendingCandidates(m.entries, e.config.Trending), k)

	recordQuery(kindTrending, time.Since(start).Seconds())
	return result, nil
}

// Status returns the observable index lifecycle state.
func (e *Engine) Status() BuildStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

func (e *Engine) setStatus(st BuildStatus) {
	e.statusMu.Lock()
	e.status = st
	e.statusMu.Unlock()
}

// clampK applies the default and maximum result-count limits.
func (e *Engine) clampK(k int) int {
	if k <= 0 {
		return e.config.Limits.DefaultK
	}
	if k > e.config.Limits.MaxK {
		return e.config.Limits.MaxK
	}
	return k
}

// newIndexModel derives the id and title lookup tables for one build.
// Later duplicates of an id lose to the first occurrence, matching the
// catalog invariant that ids are unique per snapshot.
func newIndexModel(entries []catalog.Entry, vectors *vectorindex.Model, version int, builtAt time.Time) *indexModel {
	m := &indexModel{
		entries:     entries,
		byID:        make(map[int]int, len(entries)),
		titlesLower: make([]string, len(entries)),
		titlesNorm:  make([]string, len(entries)),
		vectors:     vectors,
		version:     version,
		builtAt:     builtAt,
	}
	for i := range entries {
		if _, dup := m.byID[entries[i].ID]; !dup {
			m.byID[entries[i].ID] = i
		}
		m.titlesLower[i] = strings.ToLower(entries[i].Title)
		m.titlesNorm[i] = textnorm.Normalize(entries[i].Title)
	}
	return m
}

// lexicalMatches scans titles for substring containment of the raw query
// and of its normalized form. The normalized check catches accent and
// punctuation variance the raw check misses. Matches take the fixed
// lexical score and are capped at limit in catalog order.
func (m *indexModel) lexicalMatches(query, normalized string, limit int, score float64) []Recommendation {
	if limit <= 0 {
		return nil
	}
	rawLower := strings.ToLower(strings.TrimSpace(query))

	matches := make([]Recommendation, 0, limit)
	for i := range m.entries {
		if !strings.Contains(m.titlesLower[i], rawLower) &&
			!strings.Contains(m.titlesNorm[i], normalized) {
			continue
		}
		matches = append(matches, m.recommendation(i, score, ProvenanceTitleMatch))
		if len(matches) >= limit {
			break
		}
	}
	return matches
}

func (m *indexModel) recommendation(row int, score float64, src Provenance) Recommendation {
	entry := m.entries[row]
	return Recommendation{
		MovieID:     entry.ID,
		Title:       entry.Title,
		Genre:       entry.Genre,
		Rating:      entry.Rating,
		ReleaseDate: entry.ReleaseDate,
		Score:       score,
		Source:      src,
	}
}

// sortCandidates orders candidates by descending score, catalog id
// ascending on ties, so output is deterministic for a given snapshot.
func sortCandidates(candidates []Recommendation) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].MovieID < candidates[j].MovieID
	})
}
