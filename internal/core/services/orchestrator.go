package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/ewilliams-labs/crescendo/internal/cache"
	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
	"github.com/ewilliams-labs/crescendo/internal/logging"
	"github.com/ewilliams-labs/crescendo/internal/metrics"
)

const (
	// DefaultMaxTracks is the curated selection size.
	DefaultMaxTracks = 20
	// DefaultTopLimit is the top-tracks re-ranker subset size.
	DefaultTopLimit = 5

	genreCatalogKey = "all_genres"
)

// Orchestrator composes the selection pipeline: genre sampling, quota-based
// candidate collection, parallel enrichment and the final emotion-directional
// sort. The catalog client is passed per call because it is request-scoped
// (authenticated with the caller's token); a nil client is an authorization
// failure.
type Orchestrator struct {
	features   ports.FeatureSource
	genres     ports.GenreSource
	userGenres ports.UserGenreStore

	cache    *cache.Cache
	enricher *Enricher

	maxTracks int
	topLimit  int
	newRand   func() *rand.Rand
}

// Options configures an Orchestrator beyond its required ports.
type Options struct {
	// Cache memoizes feature vectors and the genre catalog. A fresh one is
	// created when nil.
	Cache *cache.Cache
	// FetchWorkers bounds concurrent feature-batch fetches.
	FetchWorkers int
	// MaxTracks overrides DefaultMaxTracks.
	MaxTracks int
	// TopLimit overrides DefaultTopLimit.
	TopLimit int
	// NewRand supplies the random source for every sampling call. Tests
	// inject a seeded source here; the default is time-seeded.
	NewRand func() *rand.Rand
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(features ports.FeatureSource, genres ports.GenreSource, userGenres ports.UserGenreStore, opts Options) *Orchestrator {
	if opts.Cache == nil {
		opts.Cache = cache.New(cache.DefaultCapacity, cache.DefaultTTL)
	}
	if opts.MaxTracks <= 0 {
		opts.MaxTracks = DefaultMaxTracks
	}
	if opts.TopLimit <= 0 {
		opts.TopLimit = DefaultTopLimit
	}
	if opts.NewRand == nil {
		opts.NewRand = func() *rand.Rand {
			// #nosec G404 -- sampling variety, not security-sensitive
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return &Orchestrator{
		features:   features,
		genres:     genres,
		userGenres: userGenres,
		cache:      opts.Cache,
		enricher:   NewEnricher(features, opts.Cache, opts.FetchWorkers),
		maxTracks:  opts.MaxTracks,
		topLimit:   opts.TopLimit,
		newRand:    opts.NewRand,
	}
}

// SelectTracks assembles the curated track list for an emotion. Zero
// collected candidates yield an empty slice and a nil error; only
// authorization and catalog-misconfiguration errors escape.
func (o *Orchestrator) SelectTracks(ctx context.Context, catalog ports.MusicCatalog, emotion, userID string, maxCount int) ([]domain.ScoredTrack, error) {
	if catalog == nil {
		return nil, ports.ErrNotAuthenticated
	}
	if maxCount <= 0 {
		maxCount = o.maxTracks
	}
	emotion = domain.NormalizeEmotion(emotion)

	allGenres, err := o.loadGenreCatalog(ctx)
	if err != nil {
		return nil, err
	}

	userGenres := o.loadUserGenres(ctx, userID)

	rng := o.newRand()
	genreSet, err := SampleGenres(rng, userGenres, allGenres)
	if err != nil {
		return nil, err
	}
	logging.Debug().Strs("genres", genreSet).Str("emotion", emotion).Msg("orchestrator: genre set sampled")

	candidates := NewCollector(catalog).Collect(ctx, rng, emotion, genreSet, maxCount)
	scored := o.enricher.Enrich(ctx, candidates, emotion)

	sortByPolicy(scored, domain.ClassifyEmotion(emotion))
	if len(scored) > maxCount {
		scored = scored[:maxCount]
	}
	metrics.TracksSelected.Observe(float64(len(scored)))

	return scored, nil
}

// TopTracks re-scores an existing playlist and returns its top subset under
// the same emotion-directional policy. External failures degrade to an empty
// result.
func (o *Orchestrator) TopTracks(ctx context.Context, catalog ports.MusicCatalog, emotion, playlistID string, limit int) ([]domain.ScoredTrack, error) {
	if catalog == nil {
		return nil, ports.ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = o.topLimit
	}
	emotion = domain.NormalizeEmotion(emotion)

	records, err := catalog.PlaylistTracks(ctx, playlistID)
	if err != nil {
		logging.Error().Err(err).Str("playlist_id", playlistID).Msg("orchestrator: playlist tracks fetch failed")
		return []domain.ScoredTrack{}, nil
	}

	scored := o.enricher.Enrich(ctx, records, emotion)

	switch domain.ClassifyEmotion(emotion) {
	case domain.PolicyPositive, domain.PolicyNegative:
		sortByPolicy(scored, domain.ClassifyEmotion(emotion))
		if len(scored) > limit {
			scored = scored[:limit]
		}
		return scored, nil
	default:
		// Neutral: uniform sample of min(limit, available), never an error.
		rng := o.newRand()
		if limit > len(scored) {
			limit = len(scored)
		}
		picked := make([]domain.ScoredTrack, 0, limit)
		for _, i := range rng.Perm(len(scored))[:limit] {
			picked = append(picked, scored[i])
		}
		return picked, nil
	}
}

// CreatePlaylist creates a private playlist named for the emotion and fills
// it with the given tracks, returning the new playlist id. External-call
// failures are absorbed: the id comes back empty and the caller maps that to
// a user-facing failure.
func (o *Orchestrator) CreatePlaylist(ctx context.Context, catalog ports.MusicCatalog, emotion string, tracks []domain.ScoredTrack) (string, error) {
	if catalog == nil {
		return "", ports.ErrNotAuthenticated
	}
	if len(tracks) == 0 {
		logging.Warn().Msg("orchestrator: no tracks provided to create a playlist")
		return "", nil
	}
	emotion = domain.NormalizeEmotion(emotion)

	profile, err := catalog.CurrentUser(ctx)
	if err != nil || profile.ID == "" {
		logging.Error().Err(err).Msg("orchestrator: failed to retrieve catalog user")
		return "", nil
	}

	name := fmt.Sprintf("Your %s Playlist", emotion)
	playlistID, err := catalog.CreatePlaylist(ctx, profile.ID, name, false)
	if err != nil || playlistID == "" {
		logging.Error().Err(err).Msg("orchestrator: playlist creation failed")
		return "", nil
	}

	uris := make([]string, 0, len(tracks))
	for _, tr := range tracks {
		uris = append(uris, "spotify:track:"+tr.SpotifyID)
	}
	if err := catalog.AddTracks(ctx, playlistID, uris); err != nil {
		logging.Error().Err(err).Str("playlist_id", playlistID).Msg("orchestrator: adding tracks failed")
		return "", nil
	}

	return playlistID, nil
}

// loadGenreCatalog returns the full genre catalog, cached under a single key
// within the cache TTL.
func (o *Orchestrator) loadGenreCatalog(ctx context.Context) ([]string, error) {
	if v, ok := o.cache.Get(genreCatalogKey); ok {
		if genres, ok := v.([]string); ok {
			return genres, nil
		}
	}
	genres, err := o.genres.AllGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load genre catalog: %w", err)
	}
	o.cache.Set(genreCatalogKey, genres)
	return genres, nil
}

// loadUserGenres absorbs store failures into an empty preference list.
func (o *Orchestrator) loadUserGenres(ctx context.Context, userID string) []string {
	if o.userGenres == nil || userID == "" {
		return nil
	}
	genres, err := o.userGenres.Load(ctx, userID)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("orchestrator: loading user genres failed")
		return nil
	}
	return genres
}

// sortByPolicy orders scored tracks for the final response: ascending score
// for positive emotions, descending for negative, untouched for neutral.
func sortByPolicy(tracks []domain.ScoredTrack, policy domain.Policy) {
	switch policy {
	case domain.PolicyPositive:
		sort.SliceStable(tracks, func(i, j int) bool { return tracks[i].Score < tracks[j].Score })
	case domain.PolicyNegative:
		sort.SliceStable(tracks, func(i, j int) bool { return tracks[i].Score > tracks[j].Score })
	}
}
