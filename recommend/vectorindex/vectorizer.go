// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package vectorindex

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoDocuments is returned by Fit when the corpus is empty.
var ErrNoDocuments = errors.New("vectorindex: no documents to fit")

// Config contains TF-IDF vocabulary parameters.
type Config struct {
	// MinDocFreq is the minimum number of documents a term must appear in.
	// Terms appearing in fewer documents are noise and are pruned.
	// Default: 2.
	MinDocFreq int `json:"min_doc_freq"`

	// MaxDocRatio is the maximum fraction of documents a term may appear in.
	// Terms above this ratio behave like stop words and are pruned.
	// Default: 0.8.
	MaxDocRatio float64 `json:"max_doc_ratio"`

	// MaxFeatures caps the vocabulary at the terms with the highest total
	// corpus frequency. Default: 10000.
	MaxFeatures int `json:"max_features"`

	// MaxNgram is the longest word sequence used as a term.
	// Default: 2 (unigrams and bigrams).
	MaxNgram int `json:"max_ngram"`
}

// DefaultConfig returns the default vocabulary parameters.
func DefaultConfig() Config {
	return Config{
		MinDocFreq:  2,
		MaxDocRatio: 0.8,
		MaxFeatures: 10000,
		MaxNgram:    2,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.MinDocFreq < 1 {
		return fmt.Errorf("min_doc_freq must be positive, got %d", c.MinDocFreq)
	}
	if c.MaxDocRatio <= 0 || c.MaxDocRatio > 1 {
		return fmt.Errorf("max_doc_ratio must be in (0, 1], got %f", c.MaxDocRatio)
	}
	if c.MaxFeatures < 1 {
		return fmt.Errorf("max_features must be positive, got %d", c.MaxFeatures)
	}
	if c.MaxNgram < 1 {
		return fmt.Errorf("max_ngram must be positive, got %d", c.MaxNgram)
	}
	return nil
}

// Model is a fitted TF-IDF vector space over a document corpus.
// It is immutable after Fit and safe for concurrent use.
type Model struct {
	cfg     Config
	vocab   map[string]int // term -> column
	terms   []string       // column -> term
	idf     []float64      // column -> idf weight
	rows    []Vector       // one L2-normalized vector per document
	numDocs int
}

// Fit builds a Model from the corpus. Document order is preserved: row i of
// the model corresponds to docs[i]. Fitting is deterministic for a given
// corpus and configuration.
func Fit(docs []string, cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokenized[i] = tokenize(doc, cfg.MaxNgram)
	}

	terms := selectVocabulary(tokenized, cfg)

	m := &Model{
		cfg:     cfg,
		vocab:   make(map[string]int, len(terms)),
		terms:   terms,
		idf:     make([]float64, len(terms)),
		numDocs: len(docs),
	}
	for col, term := range terms {
		m.vocab[term] = col
	}

	// Smoothed idf: ln((1+n)/(1+df)) + 1. The +1 keeps terms appearing in
	// every document from vanishing entirely.
	docFreq := make([]int, len(terms))
	for _, tokens := range tokenized {
		for _, col := range uniqueColumns(tokens, m.vocab) {
			docFreq[col]++
		}
	}
	n := float64(len(docs))
	for col, df := range docFreq {
		m.idf[col] = math.Log((1+n)/(1+float64(df))) + 1
	}

	m.rows = make([]Vector, len(docs))
	for i, tokens := range tokenized {
		m.rows[i] = m.weigh(tokens)
	}

	return m, nil
}

// selectVocabulary applies document-frequency pruning and the feature cap,
// returning the retained terms in lexicographic order.
func selectVocabulary(tokenized [][]string, cfg Config) []string {
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)

	seen := make(map[string]struct{})
	for _, tokens := range tokenized {
		clear(seen)
		for _, term := range tokens {
			corpusFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	maxDF := cfg.MaxDocRatio * float64(len(tokenized))
	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= cfg.MinDocFreq && float64(df) <= maxDF {
			kept = append(kept, term)
		}
	}

	if len(kept) > cfg.MaxFeatures {
		// Highest corpus frequency wins; lexicographic order breaks ties so
		// the cut is deterministic.
		sort.Slice(kept, func(i, j int) bool {
			if corpusFreq[kept[i]] != corpusFreq[kept[j]] {
				return corpusFreq[kept[i]] > corpusFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:cfg.MaxFeatures]
	}

	sort.Strings(kept)
	return kept
}

// uniqueColumns maps tokens to their vocabulary columns, each column once.
func uniqueColumns(tokens []string, vocab map[string]int) []int {
	seen := make(map[int]struct{}, len(tokens))
	cols := make([]int, 0, len(tokens))
	for _, term := range tokens {
		col, ok := vocab[term]
		if !ok {
			continue
		}
		if _, dup := seen[col]; dup {
			continue
		}
		seen[col] = struct{}{}
		cols = append(cols, col)
	}
	return cols
}

// weigh converts a token sequence into an L2-normalized TF-IDF vector.
func (m *Model) weigh(tokens []string) Vector {
	counts := make(map[int]float64)
	for _, term := range tokens {
		if col, ok := m.vocab[term]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	indices := make([]int, 0, len(counts))
	for col := range counts {
		indices = append(indices, col)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, col := range indices {
		values[i] = counts[col] * m.idf[col]
	}

	v := NewVector(indices, values)
	v.normalize()
	return v
}

// Transform projects text into the fitted space. The vocabulary is never
// refit: terms outside it are ignored, and text sharing no terms with the
// corpus yields a zero vector.
func (m *Model) Transform(text string) Vector {
	return m.weigh(tokenize(text, m.cfg.MaxNgram))
}

// Rows returns the number of documents in the fitted corpus.
func (m *Model) Rows() int {
	return len(m.rows)
}

// VocabSize returns the number of retained vocabulary terms.
func (m *Model) VocabSize() int {
	return len(m.terms)
}

// Row returns the fitted vector for document i.
func (m *Model) Row(i int) Vector {
	return m.rows[i]
}
