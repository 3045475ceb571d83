// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when the catalog snapshot contains no
// indexable movies. Recommendations are undefined without a catalog, so
// every query surfaces this to the caller.
var ErrEmptyCatalog = errors.New("recommend: catalog is empty")

// ErrInvalidQuery is returned when a free-text query is empty after
// normalization.
var ErrInvalidQuery = errors.New("recommend: query is empty")

// ErrNotBuilt is returned when an operation needs a built index and none
// exists, such as saving a snapshot before any build has run.
var ErrNotBuilt = errors.New("recommend: index not built")

// NotFoundError is returned when a movie id is absent from the index.
type NotFoundError struct {
	MovieID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("recommend: movie %d not found", e.MovieID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
