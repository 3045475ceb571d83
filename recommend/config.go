// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"fmt"

	"github.com/filmatlas/filmatlas/recommend/vectorindex"
)

// Config contains all configuration for the recommendation engine.
// The lexical and semantic score constants have no derivation beyond the
// behavior of the system they were tuned in; they are configuration, not
// hard-coded truths.
type Config struct {
	// Features controls feature composition weights.
	Features FeatureConfig `json:"features"`

	// Vectorizer contains TF-IDF vocabulary parameters.
	Vectorizer vectorindex.Config `json:"vectorizer"`

	// Lexical contains title-match phase parameters.
	Lexical LexicalConfig `json:"lexical"`

	// Semantic contains vector-space phase parameters.
	Semantic SemanticConfig `json:"semantic"`

	// Trending contains fallback-ranking parameters.
	Trending TrendingConfig `json:"trending"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// FeatureConfig controls how catalog fields are weighted into one content
// document. Repetition is the lever: repeating a field's text multiplies its
// term-frequency mass in the resulting vector.
type FeatureConfig struct {
	// GenreRepeat is how many times the genre field is repeated.
	// Default: 2.
	GenreRepeat int `json:"genre_repeat"`

	// DescriptionRepeat is how many times the synopsis is repeated.
	// Default: 1.
	DescriptionRepeat int `json:"description_repeat"`

	// DirectorRepeat is how many times the director field is repeated.
	// Default: 3.
	DirectorRepeat int `json:"director_repeat"`

	// ActorsRepeat is how many times the actor list is repeated.
	// Default: 3.
	ActorsRepeat int `json:"actors_repeat"`

	// DirectorPrefix disambiguates a director from an actor of the same
	// name in the token space. Default: "director_".
	DirectorPrefix string `json:"director_prefix"`

	// ActorsPrefix marks the actor list. Default: "actors_".
	ActorsPrefix string `json:"actors_prefix"`
}

// LexicalConfig contains title-match phase parameters.
type LexicalConfig struct {
	// MatchScore is the fixed similarity assigned to lexical title
	// matches. Kept below 1.0, which is reserved for vector self-identity.
	// Default: 0.95.
	MatchScore float64 `json:"match_score"`

	// MaxMatches caps how many lexical matches the phase contributes.
	// Default: 3.
	MaxMatches int `json:"max_matches"`
}

// SemanticConfig contains vector-space phase parameters.
type SemanticConfig struct {
	// MinScore is the similarity floor; results at or below it are noise,
	// not matches. Default: 0.1.
	MinScore float64 `json:"min_score"`

	// ExtraCandidates is the retrieval margin beyond the remaining result
	// slots, absorbing entries removed by filtering. Default: 5.
	ExtraCandidates int `json:"extra_candidates"`
}

// TrendingConfig contains fallback-ranking parameters.
//
// Both score terms derive from the rating: the catalog carries no
// independent popularity signal, so the "popularity" term is a rating
// rescaled by the catalog maximum. This is a deliberate simplification
// carried over from the data model, not an oversight.
type TrendingConfig struct {
	// MinRating is the inclusive rating floor for trending eligibility.
	// Default: 6.0.
	MinRating float64 `json:"min_rating"`

	// RatingWeight scales the absolute-rating term. Default: 0.7.
	RatingWeight float64 `json:"rating_weight"`

	// PopularityWeight scales the catalog-relative term. Default: 0.3.
	PopularityWeight float64 `json:"popularity_weight"`

	// RatingScale is the top of the rating scale. Default: 10.
	RatingScale float64 `json:"rating_scale"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the result count when the caller passes k <= 0.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed result count. Default: 100.
	MaxK int `json:"max_k"`
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Features: FeatureConfig{
			GenreRepeat:       2,
			DescriptionRepeat: 1,
			DirectorRepeat:    3,
			ActorsRepeat:      3,
			DirectorPrefix:    "director_",
			ActorsPrefix:      "actors_",
		},
		Vectorizer: vectorindex.DefaultConfig(),
		Lexical: LexicalConfig{
			MatchScore: 0.95,
			MaxMatches: 3,
		},
		Semantic: SemanticConfig{
			MinScore:        0.1,
			ExtraCandidates: 5,
		},
		Trending: TrendingConfig{
			MinRating:        6.0,
			RatingWeight:     0.7,
			PopularityWeight: 0.3,
			RatingScale:      10,
		},
		Limits: LimitsConfig{
			DefaultK: 10,
			MaxK:     100,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Features.GenreRepeat < 0 || c.Features.DescriptionRepeat < 0 ||
		c.Features.DirectorRepeat < 0 || c.Features.ActorsRepeat < 0 {
		return fmt.Errorf("feature repeat counts must be non-negative")
	}
	if c.Features.GenreRepeat+c.Features.DescriptionRepeat+
		c.Features.DirectorRepeat+c.Features.ActorsRepeat == 0 {
		return fmt.Errorf("at least one feature repeat count must be positive")
	}

	if err := c.Vectorizer.Validate(); err != nil {
		return fmt.Errorf("vectorizer: %w", err)
	}

	if c.Lexical.MatchScore < 0 || c.Lexical.MatchScore > 1 {
		return fmt.Errorf("lexical.match_score must be in [0, 1], got %f", c.Lexical.MatchScore)
	}
	if c.Lexical.MaxMatches < 0 {
		return fmt.Errorf("lexical.max_matches must be non-negative, got %d", c.Lexical.MaxMatches)
	}

	if c.Semantic.MinScore < 0 || c.Semantic.MinScore >= 1 {
		return fmt.Errorf("semantic.min_score must be in [0, 1), got %f", c.Semantic.MinScore)
	}
	if c.Semantic.ExtraCandidates < 0 {
		return fmt.Errorf("semantic.extra_candidates must be non-negative, got %d", c.Semantic.ExtraCandidates)
	}

	if c.Trending.MinRating < 0 {
		return fmt.Errorf("trending.min_rating must be non-negative, got %f", c.Trending.MinRating)
	}
	if c.Trending.RatingScale <= 0 {
		return fmt.Errorf("trending.rating_scale must be positive, got %f", c.Trending.RatingScale)
	}
	if c.Trending.RatingWeight < 0 || c.Trending.PopularityWeight < 0 {
		return fmt.Errorf("trending weights must be non-negative")
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	clone := *c
	return &clone
}
