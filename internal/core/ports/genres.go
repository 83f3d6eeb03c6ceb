package ports

import (
	"context"
	"errors"
)

// ErrInsufficientCatalog indicates the genre catalog is smaller than the
// sample the request needs. Fatal: this is a misconfiguration, not a
// transient failure, and it propagates to the caller.
var ErrInsufficientCatalog = errors.New("genre catalog smaller than sample size")

// GenreSource yields the full genre catalog, a non-empty set of genre names.
// Implementations load once and cache within the configured TTL.
type GenreSource interface {
	AllGenres(ctx context.Context) ([]string, error)
}

// UserGenreStore persists a user's chosen genres.
type UserGenreStore interface {
	Load(ctx context.Context, userID string) ([]string, error)
	Save(ctx context.Context, userID string, genres []string) error
}
