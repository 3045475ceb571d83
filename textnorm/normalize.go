// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents decomposes accented characters to their base letters, drops
// the combining marks, and lower-cases the result. Punctuation and spacing
// are left untouched.
func StripAccents(s string) string {
	if s == "" {
		return ""
	}

	// A transform chain carries state, so build one per call rather than
	// sharing a package-level value across goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		// Malformed input: fall back to the raw string rather than failing.
		stripped = s
	}

	return strings.ToLower(stripped)
}

// Normalize canonicalizes free text: accents stripped, lower-cased, every
// non-alphanumeric character replaced by a space, runs of whitespace
// collapsed, and the result trimmed. Empty input yields an empty string.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	stripped := StripAccents(s)

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
