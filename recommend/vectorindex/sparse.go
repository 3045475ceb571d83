// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package vectorindex

import "math"

// Vector is a sparse vector with strictly increasing column indices.
// Vectors produced by this package are L2-normalized, so the dot product of
// two vectors is their cosine similarity.
type Vector struct {
	indices []int
	values  []float64
}

// NewVector builds a Vector from parallel index/value slices. Indices must
// be strictly increasing; the slices are retained, not copied.
func NewVector(indices []int, values []float64) Vector {
	return Vector{indices: indices, values: values}
}

// IsZero reports whether the vector has no non-zero components.
func (v Vector) IsZero() bool {
	return len(v.indices) == 0
}

// NNZ returns the number of non-zero components.
func (v Vector) NNZ() int {
	return len(v.indices)
}

// Indices returns the non-zero column indices in increasing order.
func (v Vector) Indices() []int {
	return v.indices
}

// Values returns the component values parallel to Indices.
func (v Vector) Values() []float64 {
	return v.values
}

// Dot returns the dot product of two sparse vectors via a merge walk.
func (v Vector) Dot(other Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.indices) && j < len(other.indices) {
		switch {
		case v.indices[i] == other.indices[j]:
			sum += v.values[i] * other.values[j]
			i++
			j++
		case v.indices[i] < other.indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// normalize scales the vector to unit L2 norm in place.
// A zero vector stays zero.
func (v Vector) normalize() {
	var sumSq float64
	for _, val := range v.values {
		sumSq += val * val
	}
	if sumSq == 0 {
		return
	}

	norm := math.Sqrt(sumSq)
	for i := range v.values {
		v.values[i] /= norm
	}
}
