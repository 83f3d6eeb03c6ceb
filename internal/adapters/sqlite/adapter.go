// Package sqlite provides a SQLite-backed implementation of the user genre
// store port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/crescendo/internal/core/ports"
)

// Adapter implements ports.UserGenreStore for SQLite.
type Adapter struct {
	db *sql.DB
}

var _ ports.UserGenreStore = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) migrate() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS user_genres (
			user_id TEXT NOT NULL,
			genre   TEXT NOT NULL,
			PRIMARY KEY (user_id, genre)
		)
	`)
	return err
}

// Load returns the user's chosen genres in insertion order.
func (a *Adapter) Load(ctx context.Context, userID string) ([]string, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT genre FROM user_genres WHERE user_id = ? ORDER BY rowid ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, fmt.Errorf("failed to scan user genre: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user genres: %w", err)
	}
	return genres, nil
}

// Save replaces the user's chosen genres in one transaction.
func (a *Adapter) Save(ctx context.Context, userID string, genres []string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM user_genres WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear user genres: %w", err)
	}
	for _, genre := range genres {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO user_genres (user_id, genre) VALUES (?, ?)", userID, genre); err != nil {
			return fmt.Errorf("failed to insert user genre: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user genres: %w", err)
	}
	return nil
}
