// Package reccobeats implements the FeatureSource port against the
// ReccoBeats audio-features API.
package reccobeats

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
	"github.com/ewilliams-labs/crescendo/internal/logging"
)

const (
	// DefaultBaseURL is the production ReccoBeats API root.
	DefaultBaseURL = "https://api.reccobeats.com"

	// requestTimeout bounds each batch call.
	requestTimeout = 10 * time.Second
)

// Client fetches audio-feature batches. Calls are wrapped in a circuit
// breaker so a flapping feature API stops consuming the request budget; an
// open circuit surfaces as an ordinary fetch error, which the fetcher above
// absorbs per batch.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[[]domain.FeatureVector]
}

var _ ports.FeatureSource = (*Client)(nil)

// NewClient constructs a ReccoBeats client. An empty baseURL selects the
// production API; a nil httpClient gets the default 10s-timeout client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	breaker := gobreaker.NewCircuitBreaker[[]domain.FeatureVector](gobreaker.Settings{
		Name:        "reccobeats",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.TotalFailures*2 > counts.Requests
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("reccobeats: circuit state change")
		},
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		breaker:    breaker,
	}
}

// wireFeatures mirrors one feature object of the batch response. Fields ride
// as floats; key and mode are integral but unweighted.
type wireFeatures struct {
	ID               string  `json:"id"`
	Valence          float64 `json:"valence"`
	Energy           float64 `json:"energy"`
	Danceability     float64 `json:"danceability"`
	Tempo            float64 `json:"tempo"`
	Loudness         float64 `json:"loudness"`
	Liveness         float64 `json:"liveness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Key              int     `json:"key"`
	Mode             int     `json:"mode"`
}

type wireBatchResponse struct {
	Content []*wireFeatures `json:"content"`
}

// FetchBatch fetches features for up to ports.FeatureBatchLimit ids in one
// call. Objects without an id are skipped; ids unknown to the API are simply
// absent from the result.
func (c *Client) FetchBatch(ctx context.Context, trackIDs []string) ([]domain.FeatureVector, error) {
	if len(trackIDs) == 0 {
		return nil, nil
	}
	if len(trackIDs) > ports.FeatureBatchLimit {
		return nil, fmt.Errorf("reccobeats: batch of %d exceeds limit %d", len(trackIDs), ports.FeatureBatchLimit)
	}

	return c.breaker.Execute(func() ([]domain.FeatureVector, error) {
		return c.fetch(ctx, trackIDs)
	})
}

func (c *Client) fetch(ctx context.Context, trackIDs []string) ([]domain.FeatureVector, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u, err := url.Parse(c.baseURL + "/v1/audio-features")
	if err != nil {
		return nil, fmt.Errorf("reccobeats: invalid url: %w", err)
	}
	q := u.Query()
	q.Set("ids", strings.Join(trackIDs, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("reccobeats: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reccobeats: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reccobeats: status %d", resp.StatusCode)
	}

	var body wireBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("reccobeats: decode error: %w", err)
	}

	vectors := make([]domain.FeatureVector, 0, len(body.Content))
	for _, wf := range body.Content {
		if wf == nil || wf.ID == "" {
			continue
		}
		vectors = append(vectors, domain.FeatureVector{
			TrackID:          wf.ID,
			Valence:          wf.Valence,
			Energy:           wf.Energy,
			Danceability:     wf.Danceability,
			Tempo:            wf.Tempo,
			Loudness:         wf.Loudness,
			Liveness:         wf.Liveness,
			Instrumentalness: wf.Instrumentalness,
			Speechiness:      wf.Speechiness,
			Acousticness:     wf.Acousticness,
			Key:              wf.Key,
			Mode:             wf.Mode,
		})
	}
	return vectors, nil
}
