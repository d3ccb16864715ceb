// Package llm provides the chat completion client for answer generation.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Completer defines the interface for chat completion.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents the chat completion request body.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

// Response represents the chat completion response body.
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice.
type Choice struct {
	Delta        Delta  `json:"delta"`
	Message      Delta  `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// Delta represents message content in both streaming and non-streaming responses.
type Delta struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	stream      bool
	retry       RetryConfig
}

// Config holds LLM client configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Stream      bool
	Timeout     time.Duration

	// MaxRetries sets how many times a transient failure is retried before
	// the error surfaces. Zero, the default, means a single attempt.
	MaxRetries int
}

// NewClient creates a new chat completion client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	retry := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		stream:      cfg.Stream,
		retry:       retry,
	}, nil
}

// Complete sends the messages and returns the full completion text. When
// streaming is enabled the chunks are accumulated before returning.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	reqBody := Request{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Stream:      c.stream,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		if c.stream {
			req.Header.Set("Accept", "text/event-stream")
		}

		return c.httpClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion API status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if c.stream {
		return c.collectStream(resp.Body)
	}

	return parseCompletion(resp.Body)
}

// collectStream accumulates all streamed chunks into the final text.
func (c *Client) collectStream(body io.Reader) (string, error) {
	parser := NewStreamParser(body)

	var sb strings.Builder
	for {
		chunk, err := parser.Next()
		if err != nil {
			return "", fmt.Errorf("parse stream: %w", err)
		}

		sb.WriteString(chunk.Content)

		if chunk.Done {
			break
		}
	}

	return sb.String(), nil
}

// parseCompletion extracts the completion text from a non-streaming response.
func parseCompletion(body io.Reader) (string, error) {
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		content = resp.Choices[0].Delta.Content
	}

	return content, nil
}

var _ Completer = (*Client)(nil)
