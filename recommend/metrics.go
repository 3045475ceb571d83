// Filmatlas - Content-Based Movie Recommendation Engine
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the recommendation engine
var (
	// indexBuildsTotal counts index builds by trigger (lazy, forced, scheduled).
	indexBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_index_builds_total",
		Help: "Total number of recommendation index builds by trigger",
	}, []string{"trigger"})

	// indexBuildFailuresTotal counts failed index builds.
	indexBuildFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recommend_index_build_failures_total",
		Help: "Total number of failed recommendation index builds",
	})

	// indexBuildDuration measures index build latency.
	indexBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_index_build_duration_seconds",
		Help:    "Recommendation index build duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 0.01s to ~40s
	})

	// indexDocuments is the number of movies in the current index.
	indexDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "recommend_index_documents",
		Help: "Number of movies in the current recommendation index",
	})

	// indexVocabulary is the vocabulary size of the current index.
	indexVocabulary = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "recommend_index_vocabulary_terms",
		Help: "Vocabulary size of the current recommendation index",
	})

	// indexSkippedRows counts catalog entries rejected during the last build.
	indexSkippedRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "recommend_index_skipped_rows",
		Help: "Catalog entries rejected during the last index build",
	})

	// queriesTotal counts recommendation queries by kind (movie, query, trending).
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_queries_total",
		Help: "Total number of recommendation queries by kind",
	}, []string{"kind"})

	// queryErrorsTotal counts failed recommendation queries by kind.
	queryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_query_errors_total",
		Help: "Total number of failed recommendation queries by kind",
	}, []string{"kind"})

	// queryDuration measures recommendation query latency by kind.
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommend_query_duration_seconds",
		Help:    "Recommendation query duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// emptyQueryResultsTotal counts free-text queries where no lexical or
	// semantic candidate cleared the similarity floor.
	emptyQueryResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recommend_empty_query_results_total",
		Help: "Total number of free-text queries that matched no movie",
	})
)

// recordBuild records a completed index build.
func recordBuild(trigger string, seconds float64, docs, vocab, skipped int) {
	indexBuildsTotal.WithLabelValues(trigger).Inc()
	indexBuildDuration.Observe(seconds)
	indexDocuments.Set(float64(docs))
	indexVocabulary.Set(float64(vocab))
	indexSkippedRows.Set(float64(skipped))
}

// recordBuildFailure increments the build failure counter.
func recordBuildFailure() {
	indexBuildFailuresTotal.Inc()
}

// recordQuery records a completed query of the given kind.
func recordQuery(kind string, seconds float64) {
	queriesTotal.WithLabelValues(kind).Inc()
	queryDuration.WithLabelValues(kind).Observe(seconds)
}

// recordQueryError increments the query error counter for the given kind.
func recordQueryError(kind string) {
	queryErrorsTotal.WithLabelValues(kind).Inc()
}

// recordEmptyQueryResult increments the empty query result counter.
func recordEmptyQueryResult() {
	emptyQueryResultsTotal.Inc()
}
