package rest

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/crescendo/internal/logging"
)

type updateGenresRequest struct {
	Genres []string `json:"genres" validate:"required,dive,min=1"`
}

// getUserGenres handles GET /genres.
func (h *Handler) getUserGenres(w http.ResponseWriter, r *http.Request) {
	catalog := h.catalogFor(r)
	if catalog == nil {
		respondError(w, http.StatusUnauthorized, "Spotify client not authenticated")
		return
	}
	profile, err := catalog.CurrentUser(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Spotify client not authenticated")
		return
	}

	genres, err := h.userGenres.Load(r.Context(), profile.ID)
	if err != nil {
		logging.Error().Err(err).Str("user_id", profile.ID).Msg("rest: loading user genres failed")
		respondError(w, http.StatusInternalServerError, "failed to load genres")
		return
	}
	if genres == nil {
		genres = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"genres": genres})
}

// updateUserGenres handles POST /update-genres, replacing the user's chosen
// genres.
func (h *Handler) updateUserGenres(w http.ResponseWriter, r *http.Request) {
	catalog := h.catalogFor(r)
	if catalog == nil {
		respondError(w, http.StatusUnauthorized, "Spotify client not authenticated")
		return
	}
	profile, err := catalog.CurrentUser(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Spotify client not authenticated")
		return
	}

	var req updateGenresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "genres are required")
		return
	}

	if err := h.userGenres.Save(r.Context(), profile.ID, req.Genres); err != nil {
		logging.Error().Err(err).Str("user_id", profile.ID).Msg("rest: saving user genres failed")
		respondError(w, http.StatusInternalServerError, "failed to save genres")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
