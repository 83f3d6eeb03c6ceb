package spotify_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ewilliams-labs/crescendo/internal/adapters/spotify"
	"github.com/ewilliams-labs/crescendo/internal/core/domain"
)

func newTestClient(ts *httptest.Server) *spotify.Client {
	return spotify.NewClient(ts.URL, spotify.WithRetry(1, time.Millisecond))
}

func TestSearchPlaylists(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		statusCode int
		wantIDs    []string
		wantQuery  string
		expectErr  bool
	}{
		{
			name:       "parses results and skips null padding",
			statusCode: http.StatusOK,
			// MOCK: search pages pad with nulls when results were removed.
			response: `{
				"playlists": {
					"items": [
						{ "id": "pl1", "name": "Joyful Rock" },
						null,
						{ "id": "", "name": "ghost" },
						{ "id": "pl2", "name": "Happy Hits" }
					]
				}
			}`,
			wantIDs:   []string{"pl1", "pl2"},
			wantQuery: "joy rock",
		},
		{
			name:       "normalizes separators in the query",
			statusCode: http.StatusOK,
			response:   `{"playlists":{"items":[]}}`,
			wantIDs:    []string{},
			wantQuery:  "joy hip hop rap",
		},
		{
			name:       "non-200 is an error",
			statusCode: http.StatusForbidden,
			response:   `{"error":{"status":403}}`,
			expectErr:  true,
		},
	}

	queries := []string{"Joy Rock", "Joy Hip-Hop/Rap", "Joy Rock"}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query().Get("q")
				if typ := r.URL.Query().Get("type"); typ != "playlist" {
					t.Errorf("type param: got %q, want playlist", typ)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = io.WriteString(w, tt.response)
			}))
			defer ts.Close()

			refs, err := newTestClient(ts).SearchPlaylists(context.Background(), queries[i], 5)
			if (err != nil) != tt.expectErr {
				t.Fatalf("expected error: %v, got: %v", tt.expectErr, err)
			}
			if tt.expectErr {
				return
			}
			if gotQuery != tt.wantQuery {
				t.Errorf("query: got %q, want %q", gotQuery, tt.wantQuery)
			}
			if len(refs) != len(tt.wantIDs) {
				t.Fatalf("results: got %d, want %d", len(refs), len(tt.wantIDs))
			}
			for j, id := range tt.wantIDs {
				if refs[j].ID != id {
					t.Errorf("result %d: got %q, want %q", j, refs[j].ID, id)
				}
			}
		})
	}
}

func TestPlaylistTracks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlists/pl1/tracks" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		// MOCK: items may carry a null track (removed/local tracks).
		_, _ = io.WriteString(w, `{
			"items": [
				{ "track": { "id": "t1", "name": "Song One", "popularity": 42,
					"artists": [ { "name": "Artist A" }, { "name": "Artist B" } ],
					"album": { "name": "Album X" } } },
				{ "track": null },
				{ "track": { "id": "", "name": "local file" } },
				{ "track": { "id": "t2", "name": "Song Two", "popularity": 7,
					"artists": [ { "name": "Artist C" } ],
					"album": { "name": "Album Y" } } }
			]
		}`)
	}))
	defer ts.Close()

	records, err := newTestClient(ts).PlaylistTracks(context.Background(), "pl1")
	if err != nil {
		t.Fatalf("PlaylistTracks: %v", err)
	}

	want := []domain.TrackRecord{
		{ID: "t1", Title: "Song One", Artist: "Artist A", Album: "Album X", Popularity: 42},
		{ID: "t2", Title: "Song Two", Artist: "Artist C", Album: "Album Y", Popularity: 7},
	}
	if len(records) != len(want) {
		t.Fatalf("records: got %d, want %d", len(records), len(want))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d: got %+v, want %+v", i, records[i], want[i])
		}
	}
}

func TestCreatePlaylist(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		response   string
		wantID     string
		expectErr  bool
	}{
		{
			name:       "created",
			statusCode: http.StatusCreated,
			response:   `{"id":"pl-new","name":"Your Joy Playlist"}`,
			wantID:     "pl-new",
		},
		{
			name:       "missing id is an error",
			statusCode: http.StatusOK,
			response:   `{"name":"Your Joy Playlist"}`,
			expectErr:  true,
		},
		{
			name:       "non-2xx is an error",
			statusCode: http.StatusForbidden,
			response:   `{"error":{"status":403}}`,
			expectErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method: got %s, want POST", r.Method)
				}
				if r.URL.Path != "/users/user-1/playlists" {
					t.Errorf("path: got %q", r.URL.Path)
				}
				body, _ := io.ReadAll(r.Body)
				if string(body) == "" {
					t.Error("expected a request body")
				}
				w.WriteHeader(tt.statusCode)
				_, _ = io.WriteString(w, tt.response)
			}))
			defer ts.Close()

			id, err := newTestClient(ts).CreatePlaylist(context.Background(), "user-1", "Your Joy Playlist", false)
			if (err != nil) != tt.expectErr {
				t.Fatalf("expected error: %v, got: %v", tt.expectErr, err)
			}
			if id != tt.wantID {
				t.Errorf("id: got %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestAddTracks(t *testing.T) {
	var body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlists/pl1/tracks" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"snapshot_id":"snap"}`)
	}))
	defer ts.Close()

	err := newTestClient(ts).AddTracks(context.Background(), "pl1", []string{"spotify:track:t1", "spotify:track:t2"})
	if err != nil {
		t.Fatalf("AddTracks: %v", err)
	}
	if body != `{"uris":["spotify:track:t1","spotify:track:t2"]}` {
		t.Errorf("payload: got %s", body)
	}
}

func TestCurrentUser(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		response   string
		wantID     string
		expectErr  bool
	}{
		{
			name:       "ok",
			statusCode: http.StatusOK,
			response:   `{"id":"user-1","display_name":"Ada"}`,
			wantID:     "user-1",
		},
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			response:   `{"error":{"status":401}}`,
			expectErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/me" {
					t.Errorf("path: got %q", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = io.WriteString(w, tt.response)
			}))
			defer ts.Close()

			profile, err := newTestClient(ts).CurrentUser(context.Background())
			if (err != nil) != tt.expectErr {
				t.Fatalf("expected error: %v, got: %v", tt.expectErr, err)
			}
			if profile.ID != tt.wantID {
				t.Errorf("id: got %q, want %q", profile.ID, tt.wantID)
			}
		})
	}
}
