package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/crescendo/internal/core/domain"
)

// ErrNotAuthenticated indicates no authenticated catalog client is available
// for the request. Fatal: surfaced to the caller immediately, never retried.
var ErrNotAuthenticated = errors.New("catalog client not authenticated")

// PlaylistRef identifies a playlist returned by a catalog search.
type PlaylistRef struct {
	ID   string
	Name string
}

// UserProfile is the authenticated catalog user.
type UserProfile struct {
	ID          string
	DisplayName string
}

// MusicCatalog is the pre-authenticated music catalog capability (Spotify in
// production). Implementations must carry their own bounded per-call timeout.
type MusicCatalog interface {
	// SearchPlaylists returns up to limit playlists matching the query.
	SearchPlaylists(ctx context.Context, query string, limit int) ([]PlaylistRef, error)
	// PlaylistTracks returns every track of a playlist in playlist order.
	PlaylistTracks(ctx context.Context, playlistID string) ([]domain.TrackRecord, error)
	// CreatePlaylist creates a playlist for the user and returns its id.
	CreatePlaylist(ctx context.Context, userID, name string, public bool) (string, error)
	// AddTracks appends track URIs to a playlist.
	AddTracks(ctx context.Context, playlistID string, uris []string) error
	// CurrentUser returns the profile the client is authenticated as.
	CurrentUser(ctx context.Context) (UserProfile, error)
}
