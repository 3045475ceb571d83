// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package recommend implements a content-based movie recommendation engine.
//
// # Architecture
//
// The engine derives one weighted text document per catalog movie (genre,
// synopsis, director, and cast with field-specific repetition weights),
// fits a TF-IDF vector space over the corpus, and answers three query types:
//
//   - Similar-to-movie: cosine nearest neighbors of an indexed movie
//   - Free-text query: lexical title matches merged with semantic neighbors
//   - Trending: a rating-derived fallback ranking when no query is supplied
//
// # Design Principles
//
//   - Deterministic: identical catalog snapshots and queries produce
//     identical ordered output; all ties break by catalog id
//   - Immutable model: the fitted index is never mutated, only atomically
//     replaced, so readers never block behind a rebuild
//   - Degrading, not failing: malformed catalog rows are skipped with a
//     logged warning rather than aborting the build
//
// # Usage
//
//	engine, err := recommend.NewEngine(source, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	recs, err := engine.SimilarToMovie(ctx, movieID, 10)
//	recs, err = engine.ByQuery(ctx, "amelie", 10)
//	recs, err = engine.Trending(ctx, 10)
//
// The index is built lazily on first use; EnsureBuilt makes the lifecycle
// step explicit and ForceRetrain rebuilds against a fresh catalog snapshot.
//
// # Thread Safety
//
// The engine is safe for concurrent use. A single-builder mutex guarantees
// the index is built at most once per catalog snapshot; queries read an
// atomically swapped immutable model and never take the build lock once the
// model exists.
package recommend
