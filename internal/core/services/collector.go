package services

import (
	"context"
	"math/rand"
	"sort"

	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
	"github.com/ewilliams-labs/crescendo/internal/logging"
	"github.com/ewilliams-labs/crescendo/internal/metrics"
)

const playlistSearchLimit = 5

// Collector gathers candidate tracks for an emotion across a genre set. Each
// genre contributes an equal quota taken from the first playlist matching
// "{emotion} {genre}". Any failure while processing one genre is logged and
// that genre skipped; the remaining genres still run.
type Collector struct {
	catalog ports.MusicCatalog
}

// NewCollector constructs a Collector over the given catalog client.
func NewCollector(catalog ports.MusicCatalog) *Collector {
	return &Collector{catalog: catalog}
}

// Collect returns candidate records in genre-insertion order. The per-genre
// quota is total/len(genres); a genre whose playlist holds fewer tracks than
// the quota is skipped entirely rather than partially taken.
func (c *Collector) Collect(ctx context.Context, rng *rand.Rand, emotion string, genres []string, total int) []domain.TrackRecord {
	if len(genres) == 0 {
		return nil
	}
	perGenre := total / len(genres)
	if perGenre == 0 {
		return nil
	}

	policy := domain.ClassifyEmotion(emotion)

	var candidates []domain.TrackRecord
	for _, genre := range genres {
		selected, ok := c.collectGenre(ctx, rng, emotion, genre, policy, perGenre)
		if !ok {
			continue
		}
		for _, rec := range selected {
			if rec.ID == "" {
				continue
			}
			candidates = append(candidates, rec)
		}
	}

	return candidates
}

func (c *Collector) collectGenre(ctx context.Context, rng *rand.Rand, emotion, genre string, policy domain.Policy, perGenre int) ([]domain.TrackRecord, bool) {
	query := emotion + " " + genre

	playlists, err := c.catalog.SearchPlaylists(ctx, query, playlistSearchLimit)
	if err != nil {
		logging.Error().Err(err).Str("genre", genre).Msg("collector: playlist search failed")
		metrics.CatalogSearches.WithLabelValues("error").Inc()
		metrics.GenresSkipped.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.CatalogSearches.WithLabelValues("ok").Inc()
	if len(playlists) == 0 {
		metrics.GenresSkipped.WithLabelValues("no_playlist").Inc()
		return nil, false
	}

	tracks, err := c.catalog.PlaylistTracks(ctx, playlists[0].ID)
	if err != nil {
		logging.Error().Err(err).Str("genre", genre).Str("playlist_id", playlists[0].ID).Msg("collector: playlist tracks fetch failed")
		metrics.GenresSkipped.WithLabelValues("error").Inc()
		return nil, false
	}
	if len(tracks) < perGenre {
		logging.Debug().Str("genre", genre).Int("have", len(tracks)).Int("want", perGenre).Msg("collector: playlist too small, skipping genre")
		metrics.GenresSkipped.WithLabelValues("insufficient_tracks").Inc()
		return nil, false
	}

	return selectByPolicy(rng, tracks, policy, perGenre), true
}

// selectByPolicy applies the emotion-directional selection: positive emotions
// take the least popular tracks, negative the most popular, neutral a uniform
// random sample without replacement.
func selectByPolicy(rng *rand.Rand, tracks []domain.TrackRecord, policy domain.Policy, n int) []domain.TrackRecord {
	switch policy {
	case domain.PolicyPositive, domain.PolicyNegative:
		sorted := make([]domain.TrackRecord, len(tracks))
		copy(sorted, tracks)
		sort.SliceStable(sorted, func(i, j int) bool {
			if policy == domain.PolicyPositive {
				return sorted[i].Popularity < sorted[j].Popularity
			}
			return sorted[i].Popularity > sorted[j].Popularity
		})
		return sorted[:n]
	default:
		picked := make([]domain.TrackRecord, 0, n)
		for _, i := range rng.Perm(len(tracks))[:n] {
			picked = append(picked, tracks[i])
		}
		return picked
	}
}
