// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"strings"

	"github.com/filmatlas/filmatlas/catalog"
)

// ComposeDocument converts a catalog entry into the single content document
// that gets vectorized. Fields append in a fixed order - genre, description,
// director, actors - each repeated per its configured weight and joined by
// single spaces. Missing fields contribute nothing.
//
// The title is deliberately not part of the document: it is the thing being
// searched for, not a basis for thematic similarity. Feeding it in would
// bias the index toward plain title overlap.
func ComposeDocument(entry catalog.Entry, cfg FeatureConfig) string {
	var parts []string

	if genre := strings.TrimSpace(entry.Genre); genre != "" {
		genre = strings.ReplaceAll(genre, "|", " ")
		appendRepeated(&parts, genre, cfg.GenreRepeat)
	}

	if desc := strings.TrimSpace(entry.Description); desc != "" {
		appendRepeated(&parts, desc, cfg.DescriptionRepeat)
	}

	// The prefix keeps a person who both directs and acts from collapsing
	// into one token group across the two fields.
	if director := strings.TrimSpace(entry.Director); director != "" {
		appendRepeated(&parts, cfg.DirectorPrefix+director, cfg.DirectorRepeat)
	}

	if actors := strings.TrimSpace(entry.Actors); actors != "" {
		appendRepeated(&parts, cfg.ActorsPrefix+actors, cfg.ActorsRepeat)
	}

	return strings.Join(parts, " ")
}

func appendRepeated(parts *[]string, text string, times int) {
	for i := 0; i < times; i++ {
		*parts = append(*parts, text)
	}
}
