package services

import (
	"context"
	"sync"

	"github.com/ewilliams-labs/crescendo/internal/cache"
	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
	"github.com/ewilliams-labs/crescendo/internal/logging"
	"github.com/ewilliams-labs/crescendo/internal/metrics"
	"github.com/ewilliams-labs/crescendo/internal/worker"
)

const defaultFetchWorkers = 4

// FeatureFetcher resolves audio-feature vectors for track ids, consulting the
// cache first and batching the remainder against the feature source. A failed
// batch is accepted as a loss: every id in it degrades to an unfetched zero
// vector so downstream scoring can continue.
type FeatureFetcher struct {
	source  ports.FeatureSource
	cache   *cache.Cache
	workers int
}

// NewFeatureFetcher constructs a fetcher fanning batches out over the given
// number of workers.
func NewFeatureFetcher(source ports.FeatureSource, c *cache.Cache, workers int) *FeatureFetcher {
	if workers < 1 {
		workers = defaultFetchWorkers
	}
	return &FeatureFetcher{source: source, cache: c, workers: workers}
}

func featureKey(trackID string) string {
	return "audio_features_" + trackID
}

// Fetch returns exactly one vector per requested id. Callers should pass
// deduplicated ids; duplicates are tolerated but wasteful. Failures are
// absorbed, never returned: ids whose batch failed map to a vector with
// Fetched == false.
func (f *FeatureFetcher) Fetch(ctx context.Context, trackIDs []string) map[string]domain.FeatureVector {
	result := make(map[string]domain.FeatureVector, len(trackIDs))

	var uncached []string
	for _, id := range trackIDs {
		if v, ok := f.cache.Get(featureKey(id)); ok {
			if fv, ok := v.(domain.FeatureVector); ok {
				result[id] = fv
				metrics.FeatureCacheHits.Inc()
				continue
			}
		}
		metrics.FeatureCacheMisses.Inc()
		uncached = append(uncached, id)
	}

	if len(uncached) == 0 {
		return result
	}

	var (
		mu      sync.Mutex
		fetched = make(map[string]domain.FeatureVector, len(uncached))
	)

	pool := worker.NewPool(f.workers, f.workers)
	for start := 0; start < len(uncached); start += ports.FeatureBatchLimit {
		end := start + ports.FeatureBatchLimit
		if end > len(uncached) {
			end = len(uncached)
		}
		batch := uncached[start:end]

		pool.Submit(func() {
			vectors, err := f.source.FetchBatch(ctx, batch)
			if err != nil {
				// Accept the whole batch as a loss; downstream scores it 0.
				logging.Error().Err(err).Int("batch_size", len(batch)).Msg("feature fetcher: batch failed")
				metrics.FeatureBatchRequests.WithLabelValues("error").Inc()
				return
			}
			metrics.FeatureBatchRequests.WithLabelValues("ok").Inc()

			mu.Lock()
			defer mu.Unlock()
			for _, fv := range vectors {
				if fv.TrackID == "" {
					continue
				}
				fv.Fetched = true
				fetched[fv.TrackID] = fv
				f.cache.Set(featureKey(fv.TrackID), fv)
			}
		})
	}
	pool.Stop()

	for _, id := range uncached {
		if fv, ok := fetched[id]; ok {
			result[id] = fv
		} else {
			result[id] = domain.FeatureVector{TrackID: id}
		}
	}

	return result
}
