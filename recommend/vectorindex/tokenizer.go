// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package vectorindex

import (
	"strings"
	"unicode"

	"github.com/filmatlas/filmatlas/textnorm"
)

// minTokenRunes drops single-character fragments, which carry no signal.
const minTokenRunes = 2

// tokenize splits text into terms: accent-folded lower-case word runs of
// letters, digits, and underscores, plus space-joined n-grams up to maxNgram.
//
// Underscore is deliberately a word character here, unlike in
// textnorm.Normalize: the feature composer prefixes director and actor
// fields with "director_"/"actors_" tokens, and those prefixes must survive
// tokenization to keep a director distinct from an actor of the same name.
func tokenize(text string, maxNgram int) []string {
	if maxNgram < 1 {
		maxNgram = 1
	}

	words := splitWords(textnorm.StripAccents(text))
	if len(words) == 0 {
		return nil
	}

	if maxNgram == 1 {
		return words
	}

	terms := make([]string, 0, len(words)*maxNgram)
	terms = append(terms, words...)
	for n := 2; n <= maxNgram; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}

// splitWords extracts runs of letters, digits, and underscores, dropping
// runs shorter than minTokenRunes.
func splitWords(s string) []string {
	var words []string
	var b strings.Builder
	runes := 0

	flush := func() {
		if runes >= minTokenRunes {
			words = append(words, b.String())
		}
		b.Reset()
		runes = 0
	}

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			runes++
			continue
		}
		flush()
	}
	flush()

	return words
}
