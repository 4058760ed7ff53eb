package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"taskplanner/internal/config"
)

const systemPrompt = "You are a helpful task management assistant. " +
	"Respond only with the requested information, no additional text."

// Default sampling temperature; low to keep answers terse and parseable.
const temperature = 0.3

// Cap on error body kept for diagnostics.
const maxErrorBodyBytes = 512

// ErrUnexpectedResponse means the upstream answered 200 with a body we
// cannot extract a completion from. Not retryable.
var ErrUnexpectedResponse = errors.New("unexpected AI API response format")

// APIError is a non-2xx answer from the text-generation endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ai api status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether err is worth another attempt: timeouts and
// transport failures are, as are rate limits and server-class statuses.
// Client-class statuses and malformed bodies are permanent.
func Retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	if errors.Is(err, ErrUnexpectedResponse) {
		return false
	}
	return true
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg config.AI) *Client {
	return &Client{
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message *chatMessage `json:"message"`
		Text    string       `json:"text"`
	} `json:"choices"`
}

// Complete sends a single prompt and returns the model's raw text answer.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal ai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ai api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return extractCompletion(parsed)
}

// extractCompletion handles both chat ("message.content") and legacy
// completion ("text") response shapes.
func extractCompletion(parsed chatResponse) (string, error) {
	if len(parsed.Choices) == 0 {
		return "", ErrUnexpectedResponse
	}
	choice := parsed.Choices[0]
	if choice.Message != nil && choice.Message.Content != "" {
		return choice.Message.Content, nil
	}
	if choice.Text != "" {
		return choice.Text, nil
	}
	return "", ErrUnexpectedResponse
}
