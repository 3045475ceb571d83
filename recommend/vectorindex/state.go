// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package vectorindex

import "fmt"

// ModelState is the serializable form of a fitted Model, used by the
// storage layer. All fields are exported for gob encoding.
type ModelState struct {
	Config  Config
	Terms   []string
	IDF     []float64
	Rows    []VectorState
	NumDocs int
}

// VectorState is the serializable form of a sparse Vector.
type VectorState struct {
	Indices []int
	Values  []float64
}

// State captures the model for serialization.
func (m *Model) State() ModelState {
	rows := make([]VectorState, len(m.rows))
	for i, v := range m.rows {
		rows[i] = VectorState{Indices: v.indices, Values: v.values}
	}
	return ModelState{
		Config:  m.cfg,
		Terms:   m.terms,
		IDF:     m.idf,
		Rows:    rows,
		NumDocs: m.numDocs,
	}
}

// FromState reconstructs a Model from a previously captured state.
func FromState(st ModelState) (*Model, error) {
	if err := st.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in state: %w", err)
	}
	if len(st.Terms) != len(st.IDF) {
		return nil, fmt.Errorf("corrupt state: %d terms but %d idf weights", len(st.Terms), len(st.IDF))
	}

	m := &Model{
		cfg:     st.Config,
		vocab:   make(map[string]int, len(st.Terms)),
		terms:   st.Terms,
		idf:     st.IDF,
		rows:    make([]Vector, len(st.Rows)),
		numDocs: st.NumDocs,
	}
	for col, term := range st.Terms {
		m.vocab[term] = col
	}
	for i, v := range st.Rows {
		if len(v.Indices) != len(v.Values) {
			return nil, fmt.Errorf("corrupt state: row %d has %d indices but %d values", i, len(v.Indices), len(v.Values))
		}
		m.rows[i] = NewVector(v.Indices, v.Values)
	}

	return m, nil
}
