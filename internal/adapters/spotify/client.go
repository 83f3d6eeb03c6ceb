// Package spotify implements the MusicCatalog port against the Spotify Web
// API.
package spotify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/crescendo/internal/core/ports"
)

const (
	// DefaultBaseURL is the production Spotify Web API root.
	DefaultBaseURL = "https://api.spotify.com/v1"
	// DefaultTokenURL is the client-credentials token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	defaultTimeout = 15 * time.Second
)

// Client is the HTTP adapter for the Spotify Web API. One instance is built
// per request from the caller's access token; the zero client is unusable.
type Client struct {
	httpClient *http.Client
	baseURL    string

	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.MusicCatalog = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithRetry overrides the retry budget and base backoff.
func WithRetry(maxRetries int, baseBackoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseBackoff = baseBackoff
	}
}

// WithHTTPClient replaces the underlying HTTP client, typically to stack an
// OAuth transport or shorten timeouts in tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient constructs a Spotify client against baseURL. An empty baseURL
// selects the production API.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewUserClient builds a client authenticated with a user access token
// obtained by the external OAuth layer. The token is carried by an oauth2
// transport so every request bears the Authorization header.
func NewUserClient(ctx context.Context, accessToken, baseURL string, opts ...Option) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = defaultTimeout
	return NewClient(baseURL, append([]Option{WithHTTPClient(httpClient)}, opts...)...)
}

// NewAppClient builds a client authenticated with the client-credentials
// flow. It can search and read public playlists but cannot act on behalf of
// a user.
func NewAppClient(ctx context.Context, clientID, clientSecret, baseURL string, opts ...Option) *Client {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     DefaultTokenURL,
	}
	httpClient := cfg.Client(ctx)
	httpClient.Timeout = defaultTimeout
	return NewClient(baseURL, append([]Option{WithHTTPClient(httpClient)}, opts...)...)
}
