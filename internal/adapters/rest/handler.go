// Package rest exposes the HTTP interface of the service. Session handling
// and OAuth token exchange live outside; every authenticated route expects a
// bearer access token already obtained by that layer.
package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
)

// SelectionService is the slice of the orchestrator the HTTP layer needs.
type SelectionService interface {
	SelectTracks(ctx context.Context, catalog ports.MusicCatalog, emotion, userID string, maxCount int) ([]domain.ScoredTrack, error)
	TopTracks(ctx context.Context, catalog ports.MusicCatalog, emotion, playlistID string, limit int) ([]domain.ScoredTrack, error)
	CreatePlaylist(ctx context.Context, catalog ports.MusicCatalog, emotion string, tracks []domain.ScoredTrack) (string, error)
}

// CatalogFactory builds a request-scoped catalog client from a bearer token.
// An empty token yields nil, which the core treats as unauthenticated.
type CatalogFactory func(ctx context.Context, accessToken string) ports.MusicCatalog

// Handler wires the HTTP routes to the core service.
type Handler struct {
	svc        SelectionService
	refiner    ports.EmotionRefiner
	userGenres ports.UserGenreStore
	newCatalog CatalogFactory
	validate   *validator.Validate
	router     chi.Router
}

// Options configures optional handler collaborators.
type Options struct {
	// Refiner backs POST /api/nlp; nil disables refinement (the main
	// emotion passes through).
	Refiner ports.EmotionRefiner
	// AllowedOrigins configures CORS for the frontend. Empty allows none.
	AllowedOrigins []string
	// RequestsPerMinute bounds per-IP request rates. Zero disables.
	RequestsPerMinute int
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(svc SelectionService, userGenres ports.UserGenreStore, newCatalog CatalogFactory, opts Options) *Handler {
	h := &Handler{
		svc:        svc,
		refiner:    opts.Refiner,
		userGenres: userGenres,
		newCatalog: newCatalog,
		validate:   validator.New(),
		router:     chi.NewRouter(),
	}
	h.routes(opts)
	return h
}

// ServeHTTP satisfies http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes(opts Options) {
	h.router.Use(requestID)
	if len(opts.AllowedOrigins) > 0 {
		h.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	if opts.RequestsPerMinute > 0 {
		h.router.Use(httprate.LimitByIP(opts.RequestsPerMinute, time.Minute))
	}

	h.router.Get("/health", h.healthCheck)
	h.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.router.Get("/genres", h.getUserGenres)
	h.router.Post("/update-genres", h.updateUserGenres)

	h.router.Post("/api/nlp", h.refineEmotion)
	h.router.Post("/api/create_playlist", h.createPlaylist)
	h.router.Get("/api/recommend_top_tracks/{playlistID}", h.recommendTopTracks)
}

func (h *Handler) healthCheck(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// catalogFor builds the request-scoped catalog client from the Authorization
// header. Returns nil when no token is present.
func (h *Handler) catalogFor(r *http.Request) ports.MusicCatalog {
	token := bearerToken(r)
	if token == "" {
		return nil
	}
	return h.newCatalog(r.Context(), token)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
