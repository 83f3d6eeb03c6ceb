package rest

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/logging"
)

type refineEmotionRequest struct {
	MainEmotion   string `json:"mainEmotion" validate:"required"`
	EmotionDetail string `json:"emotionDetail"`
}

// refineEmotion handles POST /api/nlp. When no refiner is configured or
// refinement fails, the normalized main emotion passes through unchanged.
func (h *Handler) refineEmotion(w http.ResponseWriter, r *http.Request) {
	var req refineEmotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "mainEmotion is required")
		return
	}

	emotion := domain.NormalizeEmotion(req.MainEmotion)
	if h.refiner != nil && req.EmotionDetail != "" {
		refined, err := h.refiner.RefineEmotion(r.Context(), emotion, req.EmotionDetail)
		if err != nil {
			logging.Warn().Err(err).Str("emotion", emotion).Msg("rest: emotion refinement failed, using main emotion")
		} else {
			emotion = refined
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"emotion": emotion,
		"policy":  domain.ClassifyEmotion(emotion).String(),
	})
}
