// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"strings"

	"github.com/filmatlas/filmatlas/textnorm"
)

// Dedupe removes duplicate candidates and caps the result at limit. A
// candidate is a duplicate when its movie id or its normalized title was
// already emitted; the title check defends against distinct catalog rows
// carrying the same movie (re-releases, alternate cuts). First seen wins,
// so callers must order candidates best-first before calling. Pure function,
// input order preserved.
func Dedupe(candidates []Recommendation, limit int) []Recommendation {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	seenIDs := make(map[int]struct{}, len(candidates))
	seenTitles := make(map[string]struct{}, len(candidates))

	result := make([]Recommendation, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if _, dup := seenIDs[c.MovieID]; dup {
			continue
		}
		key := titleKey(c.Title)
		if _, dup := seenTitles[key]; dup {
			continue
		}

		seenIDs[c.MovieID] = struct{}{}
		seenTitles[key] = struct{}{}
		result = append(result, c)
		if len(result) >= limit {
			break
		}
	}

	return result
}

// titleKey canonicalizes a title for duplicate detection. Titles that
// normalize to nothing (all punctuation) fall back to the trimmed
// lower-case raw form so they don't all collide on the empty key.
func titleKey(title string) string {
	if key := textnorm.Normalize(title); key != "" {
		return key
	}
	return strings.ToLower(strings.TrimSpace(title))
}
