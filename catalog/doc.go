// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package catalog defines the movie catalog contract consumed by the
// recommendation engine.
//
// The catalog itself is owned by an external collaborator; this package only
// specifies the snapshot shape (Entry), the read contract (Source), and a few
// pure helpers over a snapshot: autocomplete suggestions, title lookup, and
// popular searches.
//
// A Source must return a consistent snapshot: the engine indexes whatever
// slice ListAll hands back and never re-reads it mid-build.
package catalog
