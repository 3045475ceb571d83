// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"math"
	"testing"

	"github.com/filmatlas/filmatlas/catalog"
)

func TestTrendingCandidates(t *testing.T) {
	cfg := DefaultConfig().Trending
	entries := []catalog.Entry{
		{ID: 1, Title: "Amélie", Rating: 7.8},
		{ID: 2, Title: "A Very Long Engagement", Rating: 7.5},
		{ID: 3, Title: "Taxi", Rating: 6.0},
		{ID: 4, Title: "Taxi 2", Rating: 5.5},
	}

	got := trendingCandidates(entries, cfg)

	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3 (rating 5.5 filtered)", len(got))
	}
	for _, r := range got {
		if r.Rating < cfg.MinRating {
			t.Errorf("movie %d has rating %.1f below floor %.1f", r.MovieID, r.Rating, cfg.MinRating)
		}
		if r.Source != ProvenanceTrending {
			t.Errorf("movie %d has source %q, want %q", r.MovieID, r.Source, ProvenanceTrending)
		}
	}

	wantOrder := []int{1, 2, 3}
	for i, id := range wantOrder {
		if got[i].MovieID != id {
			t.Errorf("position %d: got movie %d, want %d", i, got[i].MovieID, id)
		}
	}

	// Top entry: 0.7*(7.8/10) + 0.3*(7.8/7.8)
	wantScore := 0.7*0.78 + 0.3
	if math.Abs(got[0].Score-wantScore) > 1e-9 {
		t.Errorf("top score = %f, want %f", got[0].Score, wantScore)
	}
}

func TestTrendingCandidates_BoundaryRatingIncluded(t *testing.T) {
	cfg := DefaultConfig().Trending
	entries := []catalog.Entry{
		{ID: 1, Title: "At The Floor", Rating: 6.0},
		{ID: 2, Title: "Above", Rating: 8.0},
	}

	got := trendingCandidates(entries, cfg)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: rating exactly 6.0 is eligible", len(got))
	}
}

func TestTrendingCandidates_TiesBreakByID(t *testing.T) {
	cfg := DefaultConfig().Trending
	entries := []catalog.Entry{
		{ID: 9, Title: "Nine", Rating: 7.0},
		{ID: 3, Title: "Three", Rating: 7.0},
	}

	got := trendingCandidates(entries, cfg)
	if len(got) != 2 || got[0].MovieID != 3 || got[1].MovieID != 9 {
		t.Errorf("tie not broken by ascending id: %+v", got)
	}
}

func TestTrendingCandidates_Empty(t *testing.T) {
	cfg := DefaultConfig().Trending

	if got := trendingCandidates(nil, cfg); got != nil {
		t.Errorf("expected nil for empty catalog, got %+v", got)
	}

	// All ratings zero: no score basis, nothing trends.
	entries := []catalog.Entry{{ID: 1, Title: "Unrated"}}
	if got := trendingCandidates(entries, cfg); got != nil {
		t.Errorf("expected nil for unrated catalog, got %+v", got)
	}
}
