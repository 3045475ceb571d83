// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package storage persists built recommendation index snapshots.
//
// A snapshot bundles the catalog rows an index was built from with the
// fitted vectorizer state, enough to restore a queryable index without
// refitting. Snapshots are gob-encoded, gzip-compressed, and carry a
// SHA-256 checksum that is verified on load. A JSON metadata sidecar sits
// next to each snapshot file for inspection without decoding the gob.
//
// # Storage Format
//
// Files are named index_v{version}.gob.gz with an index_v{version}.json
// sidecar. Versions increase monotonically; loading with version 0 picks
// the latest.
//
// # Thread Safety
//
// A Store is safe for concurrent use. Writes are serialized; a snapshot
// file is never modified after it is written.
package storage
