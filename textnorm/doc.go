// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package textnorm canonicalizes free text for fuzzy lexical comparison.
//
// Movie titles and user queries arrive with inconsistent accents, casing,
// and punctuation ("Amélie" vs "amelie"). Normalize folds all of these to a
// single canonical form so substring checks behave the way users expect.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
package textnorm
