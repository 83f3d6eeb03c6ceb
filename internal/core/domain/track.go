package domain

// TrackRecord is a raw catalog search result, not yet scored. Only the first
// artist name is kept. Transient: never persisted.
type TrackRecord struct {
	ID         string
	Title      string
	Artist     string
	Album      string
	Popularity int
}

// ScoredTrack is the response object produced by the enricher. Request-scoped
// transport only; never persisted.
type ScoredTrack struct {
	SpotifyID string  `json:"spotify_id"`
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	Album     string  `json:"album"`
	Score     float64 `json:"score"`
	Emotion   string  `json:"emotion"`
}
