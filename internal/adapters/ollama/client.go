// Package ollama provides an adapter for a local Ollama LLM instance. It
// implements emotion refinement: narrowing a coarse emotion plus free-text
// detail down to one label from the closed emotion vocabulary.
package ollama

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/crescendo/internal/core/domain"
	"github.com/ewilliams-labs/crescendo/internal/core/ports"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.2:3b"
)

// Client talks to the Ollama chat endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ ports.EmotionRefiner = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// refinement is the structured reply the model is instructed to emit.
type refinement struct {
	Emotion string `json:"emotion"`
}

// NewClient constructs an Ollama client. Empty arguments select the local
// default instance and model.
func NewClient(baseURL, model string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func systemPrompt() string {
	return "You are the Crescendo emotion refiner. Given a main emotion and a free-text detail, " +
		"pick the single best-fitting label from this vocabulary: " +
		strings.Join(domain.KnownEmotions(), ", ") +
		`. Return ONLY a JSON object of the form {"emotion": "<label>"}. No conversational text.`
}

// RefineEmotion asks the model for the vocabulary label best matching the
// input. Labels outside the vocabulary are rejected so callers can trust the
// result classifies deterministically.
func (c *Client) RefineEmotion(ctx context.Context, mainEmotion, detail string) (string, error) {
	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Format: "json",
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt()},
			{Role: "user", Content: fmt.Sprintf("Main emotion: %s\nDetail: %s", mainEmotion, detail)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama: %s", parsed.Error)
	}
	if strings.TrimSpace(parsed.Message.Content) == "" {
		return "", fmt.Errorf("ollama: empty response")
	}

	var ref refinement
	if err := json.Unmarshal([]byte(parsed.Message.Content), &ref); err != nil {
		return "", fmt.Errorf("ollama: decode refinement: %w", err)
	}

	label := domain.NormalizeEmotion(ref.Emotion)
	if label == "" {
		return "", fmt.Errorf("ollama: refinement missing emotion")
	}
	for _, known := range domain.KnownEmotions() {
		if label == known {
			return label, nil
		}
	}
	return "", fmt.Errorf("ollama: refined label %q outside vocabulary", label)
}
