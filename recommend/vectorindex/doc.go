// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package vectorindex implements a sparse TF-IDF vector space with exact
// cosine nearest-neighbor retrieval.
//
// Fit builds an immutable Model from a corpus of documents: a term
// vocabulary with smoothed inverse-document-frequency weights and one
// L2-normalized sparse vector per document. Transform projects new text into
// the fitted space without refitting; Neighbors scans the corpus for the k
// most cosine-similar rows.
//
// Vocabulary pruning keeps terms appearing in at least MinDocFreq documents
// and in at most MaxDocRatio of the corpus, then caps the vocabulary at the
// MaxFeatures terms with the highest total corpus frequency. Terms are 1- to
// MaxNgram-word sequences over accent-folded, lower-cased word runs.
//
// Retrieval is a brute-force linear scan, which is exact and fast enough for
// catalogs in the low tens of thousands of rows.
//
// # Thread Safety
//
// A Model is immutable after Fit and safe for concurrent use.
package vectorindex
