// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"sort"

	"github.com/filmatlas/filmatlas/catalog"
)

// trendingCandidates scores the catalog with the weighted popularity
// formula and returns well-rated entries best-first. The popularity term
// is relative to the highest rating in the whole catalog, computed before
// the minimum-rating filter so the top entry always scores a full
// popularity component.
func trendingCandidates(entries []catalog.Entry, cfg TrendingConfig) []Recommendation {
	if len(entries) == 0 {
		return nil
	}

	maxRating := 0.0
	for _, e := range entries {
		if e.Rating > maxRating {
			maxRating = e.Rating
		}
	}
	if maxRating <= 0 {
		return nil
	}

	result := make([]Recommendation, 0, len(entries))
	for _, e := range entries {
		if e.Rating < cfg.MinRating {
			continue
		}
		score := cfg.RatingWeight*(e.Rating/cfg.RatingScale) +
			cfg.PopularityWeight*(e.Rating/maxRating)
		result = append(result, Recommendation{
			MovieID:     e.ID,
			Title:       e.Title,
			Genre:       e.Genre,
			Rating:      e.Rating,
			ReleaseDate: e.ReleaseDate,
			Score:       score,
			Source:      ProvenanceTrending,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].MovieID < result[j].MovieID
	})

	return result
}
