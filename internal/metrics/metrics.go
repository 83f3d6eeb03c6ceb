// Package metrics registers the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeatureBatchRequests counts feature-source batch calls by outcome
	// (ok, error).
	FeatureBatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crescendo",
		Name:      "feature_batch_requests_total",
		Help:      "Audio-feature batch fetches by outcome.",
	}, []string{"outcome"})

	// FeatureCacheHits counts feature-cache hits.
	FeatureCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crescendo",
		Name:      "feature_cache_hits_total",
		Help:      "Audio-feature cache hits.",
	})

	// FeatureCacheMisses counts feature-cache misses.
	FeatureCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crescendo",
		Name:      "feature_cache_misses_total",
		Help:      "Audio-feature cache misses.",
	})

	// CatalogSearches counts catalog playlist searches by outcome.
	CatalogSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crescendo",
		Name:      "catalog_searches_total",
		Help:      "Catalog playlist searches by outcome.",
	}, []string{"outcome"})

	// GenresSkipped counts genres dropped during collection by reason
	// (no_playlist, insufficient_tracks, error).
	GenresSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crescendo",
		Name:      "genres_skipped_total",
		Help:      "Genres skipped during track collection by reason.",
	}, []string{"reason"})

	// TracksSelected observes final curated playlist sizes.
	TracksSelected = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "crescendo",
		Name:      "tracks_selected",
		Help:      "Number of tracks in the final curated selection.",
		Buckets:   prometheus.LinearBuckets(0, 5, 6),
	})
)
