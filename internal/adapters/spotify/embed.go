package spotify

import "fmt"

// EmbedPlaylistMarkup returns the embeddable iframe snippet for a playlist.
// Pure string templating, no API call.
func EmbedPlaylistMarkup(playlistID string) string {
	return fmt.Sprintf(`<iframe src="https://open.spotify.com/embed/playlist/%s?utm_source=generator" width="100%%" height="808" frameborder="0" allowtransparency="true" allow="autoplay; clipboard-write; encrypted-media; fullscreen; picture-in-picture" loading="lazy"></iframe>`, playlistID)
}

// EmbedTrackMarkup returns the embeddable iframe snippet for a single track.
func EmbedTrackMarkup(trackID string) string {
	return fmt.Sprintf(`<iframe src="https://open.spotify.com/embed/track/%s" width="300" height="380" frameborder="0" allowfullscreen="" allowtransparency="true" allow="encrypted-media"></iframe>`, trackID)
}
