package spotify

import "github.com/ewilliams-labs/crescendo/internal/core/domain"

// Wire types for the subset of the Spotify Web API this adapter touches.
// External responses are optional-field shaped: items can be null and tracks
// can lack ids, so mapping validates instead of assuming.

type wireArtist struct {
	Name string `json:"name"`
}

type wireAlbum struct {
	Name string `json:"name"`
}

type wireTrack struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Popularity int          `json:"popularity"`
	Artists    []wireArtist `json:"artists"`
	Album      wireAlbum    `json:"album"`
}

// wirePlaylistItem wraps a track inside a playlist-tracks response.
type wirePlaylistItem struct {
	Track *wireTrack `json:"track"`
}

type wirePlaylistTracks struct {
	Items []wirePlaylistItem `json:"items"`
}

type wirePlaylistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireSearchResponse struct {
	Playlists struct {
		Items []*wirePlaylistRef `json:"items"`
	} `json:"playlists"`
}

type wireUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type wireCreatedPlaylist struct {
	ID string `json:"id"`
}

type addTracksRequest struct {
	URIs []string `json:"uris"`
}

type createPlaylistRequest struct {
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// toDomain flattens a wire track into a raw candidate record. Only the first
// artist name is kept.
func (wt wireTrack) toDomain() domain.TrackRecord {
	artist := ""
	if len(wt.Artists) > 0 {
		artist = wt.Artists[0].Name
	}
	return domain.TrackRecord{
		ID:         wt.ID,
		Title:      wt.Name,
		Artist:     artist,
		Album:      wt.Album.Name,
		Popularity: wt.Popularity,
	}
}
