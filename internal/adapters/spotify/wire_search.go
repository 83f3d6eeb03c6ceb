package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/crescendo/internal/core/ports"
)

// SearchPlaylists returns up to limit playlists matching the query.
func (c *Client) SearchPlaylists(ctx context.Context, query string, limit int) ([]ports.PlaylistRef, error) {
	if limit <= 0 {
		limit = 5
	}

	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}
	q := searchURL.Query()
	q.Set("q", normalizeQuery(query))
	q.Set("type", "playlist")
	q.Set("limit", strconv.Itoa(limit))
	searchURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: build search request: %w", err)
	}

	resp, err := c.doWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify adapter: search status %d", resp.StatusCode)
	}

	var body wireSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search decode error: %w", err)
	}

	refs := make([]ports.PlaylistRef, 0, len(body.Playlists.Items))
	for _, item := range body.Playlists.Items {
		// The API pads result pages with nulls; parse-or-skip.
		if item == nil || item.ID == "" {
			continue
		}
		refs = append(refs, ports.PlaylistRef{ID: item.ID, Name: item.Name})
	}
	return refs, nil
}
