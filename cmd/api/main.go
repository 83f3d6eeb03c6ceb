package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ewilliams-labs/crescendo/internal/adapters/genres"
	"github.com/ewilliams-labs/crescendo/internal/adapters/ollama"
	"github.com/ewilliams-labs/crescendo/internal/adapters/reccobeats"
	"github.com/ewilliams-labs/crescendo/internal/adapters/rest"
	"github.com/ewilliams-labs/crescendo/internal/adapters/spotify"
	"github.com/ewilliams-labs/crescendo/internal/adapters/sqlite"
	"github.com/ewilliams-labs/crescendo/internal/cache"
	"github.com/ewilliams-labs/crescendo/internal/config"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
	"github.com/ewilliams-labs/crescendo/internal/core/services"
	"github.com/ewilliams-labs/crescendo/internal/logging"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// Driven adapters.
	genreStore, err := sqlite.NewAdapter(cfg.Genres.StoragePath)
	if err != nil {
		logging.Error().Err(err).Msg("failed to initialize genre store")
		os.Exit(1)
	}
	defer genreStore.Close()

	genreSource := genres.NewFileSource(cfg.Genres.CatalogPath)
	featureSource := reccobeats.NewClient(cfg.Features.BaseURL, nil)

	// Core service.
	orchestrator := services.NewOrchestrator(featureSource, genreSource, genreStore, services.Options{
		Cache:        cache.New(cfg.Pipeline.CacheSize, cfg.Pipeline.CacheTTL),
		FetchWorkers: cfg.Pipeline.FetchWorkers,
		MaxTracks:    cfg.Pipeline.MaxTracks,
		TopLimit:     cfg.Pipeline.TopLimit,
	})

	// Driving adapter. The OAuth layer in front of us hands each request a
	// bearer token; the factory turns it into a request-scoped client.
	newCatalog := func(ctx context.Context, accessToken string) ports.MusicCatalog {
		return spotify.NewUserClient(ctx, accessToken, cfg.Spotify.BaseURL)
	}

	var refiner ports.EmotionRefiner
	if cfg.Ollama.Enabled {
		refiner = ollama.NewClient(cfg.Ollama.URL, cfg.Ollama.Model)
	}

	handler := rest.NewHandler(orchestrator, genreStore, newCatalog, rest.Options{
		Refiner:           refiner,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		RequestsPerMinute: cfg.Server.RequestsPerMinute,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Server.Addr).Msg("crescendo api listening")
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			logging.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("shutdown error")
		}
	}
}
