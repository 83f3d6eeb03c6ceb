package spotify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
)

// PlaylistTracks fetches a playlist's tracks in playlist order. Items without
// a track or without a track id are skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]domain.TrackRecord, error) {
	u := fmt.Sprintf("%s/playlists/%s/tracks", c.baseURL, url.PathEscape(playlistID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: build playlist tracks request: %w", err)
	}

	resp, err := c.doWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: playlist tracks request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify adapter: playlist tracks status %d", resp.StatusCode)
	}

	var body wirePlaylistTracks
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("spotify adapter: playlist tracks decode error: %w", err)
	}

	records := make([]domain.TrackRecord, 0, len(body.Items))
	for _, item := range body.Items {
		if item.Track == nil || item.Track.ID == "" {
			continue
		}
		records = append(records, item.Track.toDomain())
	}
	return records, nil
}

// CreatePlaylist creates a playlist for the user and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name string, public bool) (string, error) {
	payload, err := json.Marshal(createPlaylistRequest{Name: name, Public: public})
	if err != nil {
		return "", fmt.Errorf("spotify adapter: marshal create playlist: %w", err)
	}

	u := fmt.Sprintf("%s/users/%s/playlists", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("spotify adapter: build create playlist request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doWithRetry(req)
	if err != nil {
		return "", fmt.Errorf("spotify adapter: create playlist request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("spotify adapter: create playlist status %d", resp.StatusCode)
	}

	var created wireCreatedPlaylist
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("spotify adapter: create playlist decode error: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("spotify adapter: create playlist response missing id")
	}
	return created.ID, nil
}

// AddTracks appends track URIs to a playlist.
func (c *Client) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	payload, err := json.Marshal(addTracksRequest{URIs: uris})
	if err != nil {
		return fmt.Errorf("spotify adapter: marshal add tracks: %w", err)
	}

	u := fmt.Sprintf("%s/playlists/%s/tracks", c.baseURL, url.PathEscape(playlistID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("spotify adapter: build add tracks request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doWithRetry(req)
	if err != nil {
		return fmt.Errorf("spotify adapter: add tracks request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("spotify adapter: add tracks status %d", resp.StatusCode)
	}
	return nil
}

// CurrentUser returns the profile the client is authenticated as.
func (c *Client) CurrentUser(ctx context.Context) (ports.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return ports.UserProfile{}, fmt.Errorf("spotify adapter: build current user request: %w", err)
	}

	resp, err := c.doWithRetry(req)
	if err != nil {
		return ports.UserProfile{}, fmt.Errorf("spotify adapter: current user request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.UserProfile{}, fmt.Errorf("spotify adapter: current user status %d", resp.StatusCode)
	}

	var user wireUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return ports.UserProfile{}, fmt.Errorf("spotify adapter: current user decode error: %w", err)
	}
	if user.ID == "" {
		return ports.UserProfile{}, fmt.Errorf("spotify adapter: current user response missing id")
	}
	return ports.UserProfile{ID: user.ID, DisplayName: user.DisplayName}, nil
}
