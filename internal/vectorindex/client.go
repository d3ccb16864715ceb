package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client queries a remote vector index over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	namespace  string
}

// Config holds vector index client configuration.
type Config struct {
	BaseURL   string
	APIKey    string
	Namespace string
	Timeout   time.Duration
}

// NewClient creates a new vector index client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		namespace:  cfg.Namespace,
	}, nil
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"top_k"`
	Namespace       string    `json:"namespace,omitempty"`
	IncludeMetadata bool      `json:"include_metadata"`
}

type queryResponse struct {
	Matches []Match `json:"matches"`
}

// Query returns the nearest matches for the given vector.
func (c *Client) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	reqBody := queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       c.namespace,
		IncludeMetadata: true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/query", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vector index error: status %d", resp.StatusCode)
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return qr.Matches, nil
}

var _ Index = (*Client)(nil)
