// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package vectorindex

import "sort"

// Neighbor is one k-nearest-neighbor result.
type Neighbor struct {
	// Row is the document's position in the fitted corpus.
	Row int

	// Similarity is the cosine similarity to the query vector, in [0, 1].
	Similarity float64
}

// Neighbors returns the k corpus rows most cosine-similar to query, ordered
// by similarity descending with row ascending as tiebreak. Fewer than k
// results are returned only when the corpus is smaller than k. A zero query
// vector has similarity 0 to every row.
func (m *Model) Neighbors(query Vector, k int) []Neighbor {
	if k <= 0 || len(m.rows) == 0 {
		return nil
	}
	if k > len(m.rows) {
		k = len(m.rows)
	}

	// Exact brute-force scan. Catalogs here are small enough that a linear
	// pass beats the bookkeeping of an approximate index.
	neighbors := make([]Neighbor, len(m.rows))
	for i, row := range m.rows {
		neighbors[i] = Neighbor{Row: i, Similarity: clampUnit(query.Dot(row))}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].Row < neighbors[j].Row
	})

	return neighbors[:k]
}

// NeighborsOfRow returns the k rows most similar to an existing corpus row.
// The row itself is included (it is always its own nearest neighbor).
func (m *Model) NeighborsOfRow(row, k int) []Neighbor {
	if row < 0 || row >= len(m.rows) {
		return nil
	}
	return m.Neighbors(m.rows[row], k)
}

// clampUnit forces floating-point rounding spill back into [0, 1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
