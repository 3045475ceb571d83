// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// minAutocompleteRunes is the minimum query length before suggestions fire.
	minAutocompleteRunes = 2

	// defaultAutocompleteLimit caps suggestion counts when the caller passes 0.
	defaultAutocompleteLimit = 10

	// popularMinRating is the rating floor for popular searches.
	popularMinRating = 7.0

	// defaultPopularLimit caps popular-search counts when the caller passes 0.
	defaultPopularLimit = 8
)

// Suggestion is one autocomplete result.
type Suggestion struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Year     int     `json:"year,omitempty"`
	Genre    string  `json:"genre,omitempty"`
	Director string  `json:"director,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
}

// Autocomplete returns title suggestions for a partially typed query using
// case-insensitive substring containment. Queries shorter than two runes
// return no suggestions. A non-positive limit falls back to the default.
func Autocomplete(entries []Entry, query string, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minAutocompleteRunes {
		return nil
	}
	if limit <= 0 {
		limit = defaultAutocompleteLimit
	}

	needle := strings.ToLower(query)
	suggestions := make([]Suggestion, 0, limit)
	for _, e := range entries {
		if !strings.Contains(strings.ToLower(e.Title), needle) {
			continue
		}

		year := 0
		if !e.ReleaseDate.IsZero() {
			year = e.ReleaseDate.Year()
		}

		suggestions = append(suggestions, Suggestion{
			ID:       e.ID,
			Title:    e.Title,
			Year:     year,
			Genre:    e.Genre,
			Director: e.Director,
			Rating:   e.Rating,
		})
		if len(suggestions) >= limit {
			break
		}
	}

	return suggestions
}

// FindByTitle looks a movie up by title: an exact case-insensitive match
// wins, otherwise the first substring match is returned.
func FindByTitle(entries []Entry, title string) (Entry, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Entry{}, false
	}

	needle := strings.ToLower(title)
	for _, e := range entries {
		if strings.ToLower(e.Title) == needle {
			return e, true
		}
	}

	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), needle) {
			return e, true
		}
	}

	return Entry{}, false
}

// PopularSearches returns the highest-rated movies with a rating of at
// least 7.0, ordered by rating descending with id ascending as tiebreak.
// A non-positive limit falls back to the default.
func PopularSearches(entries []Entry, limit int) []Entry {
	if limit <= 0 {
		limit = defaultPopularLimit
	}

	popular := make([]Entry, 0, limit)
	for _, e := range entries {
		if e.Rating >= popularMinRating {
			popular = append(popular, e)
		}
	}

	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Rating != popular[j].Rating {
			return popular[i].Rating > popular[j].Rating
		}
		return popular[i].ID < popular[j].ID
	})

	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular
}
