package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/crescendo/internal/adapters/spotify"
	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
	"github.com/ewilliams-labs/crescendo/internal/logging"
)

type createPlaylistRequest struct {
	Emotion string `json:"emotion" validate:"required"`
}

type topTrackResponse struct {
	domain.ScoredTrack
	EmbeddedTrackCode string `json:"embedded_track_code"`
}

type createPlaylistResponse struct {
	PlaylistID           string               `json:"playlist_id"`
	EmbeddedPlaylistCode string               `json:"embedded_playlist_code"`
	Tracks               []domain.ScoredTrack `json:"tracks"`
	TopTracks            []topTrackResponse   `json:"top_tracks"`
}

// createPlaylist handles POST /api/create_playlist: select tracks for the
// emotion, create the playlist, and return the embed code plus the re-ranked
// top tracks.
func (h *Handler) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "emotion is required")
		return
	}

	catalog := h.catalogFor(r)
	emotion := domain.NormalizeEmotion(req.Emotion)

	tracks, err := h.svc.SelectTracks(r.Context(), catalog, emotion, h.currentUserID(r, catalog), 0)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if len(tracks) == 0 {
		respondError(w, http.StatusNotFound, fmt.Sprintf("No tracks found for emotion: %s", emotion))
		return
	}

	playlistID, err := h.svc.CreatePlaylist(r.Context(), catalog, emotion, tracks)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if playlistID == "" {
		respondError(w, http.StatusInternalServerError, "Failed to create playlist")
		return
	}

	topTracks, err := h.svc.TopTracks(r.Context(), catalog, emotion, playlistID, 0)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	top := make([]topTrackResponse, 0, len(topTracks))
	for _, tr := range topTracks {
		top = append(top, topTrackResponse{
			ScoredTrack:       tr,
			EmbeddedTrackCode: spotify.EmbedTrackMarkup(tr.SpotifyID),
		})
	}

	respondJSON(w, http.StatusOK, createPlaylistResponse{
		PlaylistID:           playlistID,
		EmbeddedPlaylistCode: spotify.EmbedPlaylistMarkup(playlistID),
		Tracks:               tracks,
		TopTracks:            top,
	})
}

// recommendTopTracks handles GET /api/recommend_top_tracks/{playlistID}.
func (h *Handler) recommendTopTracks(w http.ResponseWriter, r *http.Request) {
	playlistID := chi.URLParam(r, "playlistID")
	emotion := domain.NormalizeEmotion(r.URL.Query().Get("emotion"))
	if emotion == "" {
		respondError(w, http.StatusBadRequest, "emotion is required")
		return
	}

	tracks, err := h.svc.TopTracks(r.Context(), h.catalogFor(r), emotion, playlistID, 0)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	top := make([]topTrackResponse, 0, len(tracks))
	for _, tr := range tracks {
		top = append(top, topTrackResponse{
			ScoredTrack:       tr,
			EmbeddedTrackCode: spotify.EmbedTrackMarkup(tr.SpotifyID),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"top_tracks": top})
}

// currentUserID resolves the catalog user for genre preferences. Failures
// degrade to an empty id: selection still works, just without user genres.
func (h *Handler) currentUserID(r *http.Request, catalog ports.MusicCatalog) string {
	if catalog == nil {
		return ""
	}
	profile, err := catalog.CurrentUser(r.Context())
	if err != nil {
		logging.Warn().Err(err).Msg("rest: current user lookup failed")
		return ""
	}
	return profile.ID
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "Spotify client not authenticated")
	case errors.Is(err, ports.ErrInsufficientCatalog):
		logging.Error().Err(err).Msg("rest: genre catalog misconfigured")
		respondError(w, http.StatusInternalServerError, "genre catalog misconfigured")
	default:
		logging.Error().Err(err).Msg("rest: request failed")
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
