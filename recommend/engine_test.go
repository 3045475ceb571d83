// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/filmatlas/filmatlas/catalog"
)

// frenchCatalog is a small corpus where the two Jeunet movies share a
// weighted director and the third shares nothing that survives
// document-frequency pruning.
func frenchCatalog() []catalog.Entry {
	return []catalog.Entry{
		{ID: 1, Title: "Amélie", Genre: "Comedy", Director: "Jean-Pierre Jeunet", Rating: 7.8},
		{ID: 2, Title: "A Very Long Engagement", Genre: "Drama", Director: "Jean-Pierre Jeunet", Rating: 7.5},
		{ID: 3, Title: "Taxi", Genre: "Action", Director: "Gérard Pirès", Rating: 6.0},
	}
}

func newTestEngine(t *testing.T, entries []catalog.Entry) *Engine {
	t.Helper()
	eng, err := NewEngine(catalog.NewMemorySource(entries), DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() = %v", err)
	}
	return eng
}

// countingSource counts catalog snapshots taken, to assert build-vs-reuse.
type countingSource struct {
	inner *catalog.MemorySource
	calls atomic.Int64
}

func (s *countingSource) ListAll(ctx context.Context) ([]catalog.Entry, error) {
	s.calls.Add(1)
	return s.inner.ListAll(ctx)
}

func TestNewEngine(t *testing.T) {
	t.Run("nil source rejected", func(t *testing.T) {
		if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
			t.Fatal("expected error for nil source")
		}
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		eng, err := NewEngine(catalog.NewMemorySource(nil), nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() = %v", err)
		}
		if eng.config.Limits.DefaultK != 10 {
			t.Errorf("DefaultK = %d, want 10", eng.config.Limits.DefaultK)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Limits.DefaultK = 0
		if _, err := NewEngine(catalog.NewMemorySource(nil), cfg, zerolog.Nop()); err == nil {
			t.Fatal("expected error for invalid config")
		}
	})
}

func TestSimilarToMovie_SharedDirectorDominates(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	got, err := eng.SimilarToMovie(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("SimilarToMovie() = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].MovieID != 2 {
		t.Errorf("top result = movie %d, want 2 (shared director outweighs all else)", got[0].MovieID)
	}
	if got[1].MovieID != 3 {
		t.Errorf("second result = movie %d, want 3", got[1].MovieID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %f then %f", got[0].Score, got[1].Score)
	}
}

func TestSimilarToMovie_NeverIncludesSelf(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	for _, id := range []int{1, 2, 3} {
		got, err := eng.SimilarToMovie(context.Background(), id, 10)
		if err != nil {
			t.Fatalf("SimilarToMovie(%d) = %v", id, err)
		}
		for _, r := range got {
			if r.MovieID == id {
				t.Errorf("movie %d recommended to itself", id)
			}
		}
		if len(got) > len(frenchCatalog())-1 {
			t.Errorf("movie %d: %d results exceeds catalog size minus one", id, len(got))
		}
	}
}

func TestSimilarToMovie_ScoreBounds(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	got, err := eng.SimilarToMovie(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("SimilarToMovie() = %v", err)
	}
	for _, r := range got {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("movie %d score %f outside [0, 1]", r.MovieID, r.Score)
		}
	}
}

func TestSimilarToMovie_UnknownID(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	_, err := eng.SimilarToMovie(context.Background(), 999, 5)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	var nf *NotFoundError
	if errors.As(err, &nf) && nf.MovieID != 999 {
		t.Errorf("NotFoundError.MovieID = %d, want 999", nf.MovieID)
	}
}

func TestByQuery_NormalizedLexicalMatch(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	// No accent in the query; only the normalized-form branch can match.
	got, err := eng.ByQuery(context.Background(), "amelie", 5)
	if err != nil {
		t.Fatalf("ByQuery() = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("no results")
	}
	if got[0].MovieID != 1 {
		t.Errorf("top result = movie %d, want 1", got[0].MovieID)
	}
	if got[0].Source != ProvenanceTitleMatch {
		t.Errorf("source = %q, want %q", got[0].Source, ProvenanceTitleMatch)
	}
	if got[0].Score != eng.config.Lexical.MatchScore {
		t.Errorf("score = %f, want %f", got[0].Score, eng.config.Lexical.MatchScore)
	}
}

func TestByQuery_ExactTitlePriority(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	got, err := eng.ByQuery(context.Background(), "Taxi", 5)
	if err != nil {
		t.Fatalf("ByQuery() = %v", err)
	}
	if len(got) == 0 || got[0].MovieID != 3 || got[0].Source != ProvenanceTitleMatch {
		t.Fatalf("exact title match not first: %+v", got)
	}
}

func TestByQuery_LexicalCap(t *testing.T) {
	entries := []catalog.Entry{
		{ID: 1, Title: "Taxi", Genre: "Action", Rating: 6.0},
		{ID: 2, Title: "Taxi 2", Genre: "Action", Rating: 5.5},
		{ID: 3, Title: "Taxi 3", Genre: "Action", Rating: 5.0},
		{ID: 4, Title: "Taxi 4", Genre: "Action", Rating: 4.5},
	}
	eng := newTestEngine(t, entries)

	got, err := eng.ByQuery(context.Background(), "taxi", 10)
	if err != nil {
		t.Fatalf("ByQuery() = %v", err)
	}

	lexical := 0
	for _, r := range got {
		if r.Source == ProvenanceTitleMatch {
			lexical++
		}
	}
	if lexical != eng.config.Lexical.MaxMatches {
		t.Errorf("got %d lexical matches, want %d", lexical, eng.config.Lexical.MaxMatches)
	}
}

func TestByQuery_SemanticPhase(t *testing.T) {
	entries := []catalog.Entry{
		{ID: 1, Title: "Alien", Genre: "Science Fiction Horror", Description: "A crew fights a deadly creature in deep space", Rating: 8.5},
		{ID: 2, Title: "Moon", Genre: "Science Fiction Drama", Description: "A lone worker on a station in deep space", Rating: 7.8},
		{ID: 3, Title: "Amour", Genre: "Romance Drama", Description: "An elderly couple in Paris", Rating: 7.9},
	}
	eng := newTestEngine(t, entries)

	got, err := eng.ByQuery(context.Background(), "deep space", 5)
	if err != nil {
		t.Fatalf("ByQuery() = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("no results for a query matching indexed vocabulary")
	}
	for _, r := range got {
		if r.Source != ProvenanceSemantic {
			t.Errorf("movie %d source = %q, want %q (no title contains the query)", r.MovieID, r.Source, ProvenanceSemantic)
		}
		if r.MovieID == 3 {
			t.Errorf("movie 3 matched %q despite sharing no surviving terms", "deep space")
		}
		if r.Score <= eng.config.Semantic.MinScore {
			t.Errorf("movie %d score %f at or below noise floor", r.MovieID, r.Score)
		}
	}
}

func TestByQuery_NoMatchesReturnsEmpty(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	got, err := eng.ByQuery(context.Background(), "zzzz qqqq", 5)
	if err != nil {
		t.Fatalf("ByQuery() = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d results for a query matching nothing, want 0", len(got))
	}
}

func TestByQuery_InvalidQuery(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	for _, q := range []string{"", "   ", "!!! ???"} {
		if _, err := eng.ByQuery(context.Background(), q, 5); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("ByQuery(%q) error = %v, want ErrInvalidQuery", q, err)
		}
	}
}

func TestByQuery_Deterministic(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	first, err := eng.ByQuery(context.Background(), "comedy jeunet", 5)
	if err != nil {
		t.Fatalf("ByQuery() = %v", err)
	}
	second, err := eng.ByQuery(context.Background(), "comedy jeunet", 5)
	if err != nil {
		t.Fatalf("ByQuery() = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical queries diverged:\n%+v\n%+v", first, second)
	}
}

func TestByQuery_NoDuplicates(t *testing.T) {
	// A re-release row shares the normalized title with the original.
	entries := append(frenchCatalog(),
		catalog.Entry{ID: 4, Title: "Amelie", Genre: "Comedy", Director: "Jean-Pierre Jeunet", Rating: 7.6})
	eng := newTestEngine(t, entries)

	got, err := eng.ByQuery(context.Background(), "amelie", 5)
	if err != nil {
		t.Fatalf("ByQuery() = %v", err)
	}

	ids := make(map[int]bool)
	titles := make(map[string]bool)
	for _, r := range got {
		if ids[r.MovieID] {
			t.Errorf("duplicate movie id %d", r.MovieID)
		}
		ids[r.MovieID] = true
		key := titleKey(r.Title)
		if titles[key] {
			t.Errorf("duplicate normalized title %q", key)
		}
		titles[key] = true
	}
	if got[0].MovieID != 1 {
		t.Errorf("first-seen row lost the dedupe: top is movie %d", got[0].MovieID)
	}
}

func TestEngine_EmptyCatalog(t *testing.T) {
	eng := newTestEngine(t, nil)

	if _, err := eng.SimilarToMovie(context.Background(), 1, 5); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("SimilarToMovie error = %v, want ErrEmptyCatalog", err)
	}
	if _, err := eng.ByQuery(context.Background(), "anything", 5); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("ByQuery error = %v, want ErrEmptyCatalog", err)
	}
	if _, err := eng.Trending(context.Background(), 5); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Trending error = %v, want ErrEmptyCatalog", err)
	}
}

func TestEngine_SkipsMalformedRows(t *testing.T) {
	entries := append(frenchCatalog(),
		catalog.Entry{ID: 0, Title: "No ID", Genre: "Drama", Rating: 7.0},
		catalog.Entry{ID: 5, Title: "   ", Genre: "Drama", Rating: 7.0})
	eng := newTestEngine(t, entries)

	if err := eng.EnsureBuilt(context.Background()); err != nil {
		t.Fatalf("EnsureBuilt() = %v", err)
	}

	st := eng.Status()
	if st.SkippedRows != 2 {
		t.Errorf("SkippedRows = %d, want 2", st.SkippedRows)
	}
	if st.DocCount != 3 {
		t.Errorf("DocCount = %d, want 3", st.DocCount)
	}
}

func TestEngine_ConcurrentLazyBuildRunsOnce(t *testing.T) {
	src := &countingSource{inner: catalog.NewMemorySource(frenchCatalog())}
	eng, err := NewEngine(src, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := eng.EnsureBuilt(context.Background()); err != nil {
				t.Errorf("EnsureBuilt() = %v", err)
			}
		}()
	}
	wg.Wait()

	if calls := src.calls.Load(); calls != 1 {
		t.Errorf("catalog listed %d times, want 1", calls)
	}
}

func TestEngine_ForceRetrain(t *testing.T) {
	src := &countingSource{inner: catalog.NewMemorySource(frenchCatalog())}
	eng, err := NewEngine(src, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() = %v", err)
	}

	if err := eng.EnsureBuilt(context.Background()); err != nil {
		t.Fatalf("EnsureBuilt() = %v", err)
	}
	if v := eng.Status().Version; v != 1 {
		t.Fatalf("version after first build = %d, want 1", v)
	}

	// New catalog contents take effect on retrain.
	src.inner.Replace([]catalog.Entry{
		{ID: 10, Title: "Replacement", Genre: "Drama", Rating: 8.0},
	})
	if err := eng.ForceRetrain(context.Background()); err != nil {
		t.Fatalf("ForceRetrain() = %v", err)
	}

	st := eng.Status()
	if st.Version != 2 {
		t.Errorf("version after retrain = %d, want 2", st.Version)
	}
	if st.DocCount != 1 {
		t.Errorf("DocCount after retrain = %d, want 1", st.DocCount)
	}
	if calls := src.calls.Load(); calls != 2 {
		t.Errorf("catalog listed %d times, want 2", calls)
	}

	if _, err := eng.SimilarToMovie(context.Background(), 1, 5); !IsNotFound(err) {
		t.Errorf("old movie id still resolvable after retrain: %v", err)
	}
}

func TestEngine_FailedRetrainKeepsOldIndex(t *testing.T) {
	src := &countingSource{inner: catalog.NewMemorySource(frenchCatalog())}
	eng, err := NewEngine(src, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() = %v", err)
	}
	if err := eng.EnsureBuilt(context.Background()); err != nil {
		t.Fatalf("EnsureBuilt() = %v", err)
	}

	src.inner.Replace(nil)
	if err := eng.ForceRetrain(context.Background()); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("ForceRetrain error = %v, want ErrEmptyCatalog", err)
	}

	// Queries keep answering from the previous build.
	got, err := eng.SimilarToMovie(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("SimilarToMovie() after failed retrain = %v", err)
	}
	if len(got) == 0 {
		t.Error("no results from surviving index")
	}
	if last := eng.Status().LastError; last == "" {
		t.Error("Status().LastError not recorded")
	}
}

func TestEngine_Trending(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	got, err := eng.Trending(context.Background(), 2)
	if err != nil {
		t.Fatalf("Trending() = %v", err)
	}
	if len(got) != 2 || got[0].MovieID != 1 || got[1].MovieID != 2 {
		t.Errorf("Trending(2) = %+v, want movies [1, 2]", got)
	}
	for _, r := range got {
		if r.Rating < eng.config.Trending.MinRating {
			t.Errorf("movie %d rating %.1f below floor", r.MovieID, r.Rating)
		}
	}
}

func TestEngine_ClampK(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	if got := eng.clampK(0); got != eng.config.Limits.DefaultK {
		t.Errorf("clampK(0) = %d, want default %d", got, eng.config.Limits.DefaultK)
	}
	if got := eng.clampK(-3); got != eng.config.Limits.DefaultK {
		t.Errorf("clampK(-3) = %d, want default %d", got, eng.config.Limits.DefaultK)
	}
	if got := eng.clampK(1000); got != eng.config.Limits.MaxK {
		t.Errorf("clampK(1000) = %d, want max %d", got, eng.config.Limits.MaxK)
	}
	if got := eng.clampK(7); got != 7 {
		t.Errorf("clampK(7) = %d, want 7", got)
	}
}

func TestEngine_StatusBeforeBuild(t *testing.T) {
	eng := newTestEngine(t, frenchCatalog())

	st := eng.Status()
	if st.Built {
		t.Error("Status().Built true before any build")
	}
	if st.Version != 0 {
		t.Errorf("Status().Version = %d before any build", st.Version)
	}
}
