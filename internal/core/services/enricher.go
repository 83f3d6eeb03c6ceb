package services

import (
	"context"

	"github.com/ewilliams-labs/crescendo/internal/cache"
	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
)

// Enricher turns raw track records into scored tracks. Feature fetching for
// the whole input happens in one fetcher call; scoring itself is cheap and
// runs synchronously afterwards.
type Enricher struct {
	fetcher *FeatureFetcher
}

// NewEnricher constructs an Enricher over the given feature source and cache.
func NewEnricher(source ports.FeatureSource, c *cache.Cache, workers int) *Enricher {
	return &Enricher{fetcher: NewFeatureFetcher(source, c, workers)}
}

// Enrich builds one ScoredTrack per input record with a non-empty id,
// preserving input order. Records whose feature lookup failed score exactly 0
// and are kept, not dropped. No sorting happens here; ordering by score is
// the orchestrator's call to make.
func (e *Enricher) Enrich(ctx context.Context, records []domain.TrackRecord, emotion string) []domain.ScoredTrack {
	ids := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		ids = append(ids, rec.ID)
	}

	features := e.fetcher.Fetch(ctx, ids)

	scored := make([]domain.ScoredTrack, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}

		var score float64
		if fv, ok := features[rec.ID]; ok && fv.Fetched {
			score = fv.CompositeScore()
		}

		scored = append(scored, domain.ScoredTrack{
			SpotifyID: rec.ID,
			Title:     rec.Title,
			Artist:    rec.Artist,
			Album:     rec.Album,
			Score:     score,
			Emotion:   emotion,
		})
	}

	return scored
}
