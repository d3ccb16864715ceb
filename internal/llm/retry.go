package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"
)

const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// RetryConfig holds retry configuration for the HTTP transport. The zero
// MaxRetries means a single attempt: transient collaborator failures surface
// immediately so the caller can degrade instead of waiting out a backoff.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the default retry configuration: one attempt,
// no retries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     0,
		InitialBackoff: initialBackoff,
		MaxBackoff:     maxBackoff,
	}
}

// shouldRetry determines if a status code is retryable.
func shouldRetry(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// calculateBackoff calculates exponential backoff duration.
func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	backoff := float64(config.InitialBackoff) * math.Pow(2, float64(attempt))

	if backoff > float64(config.MaxBackoff) {
		backoff = float64(config.MaxBackoff)
	}

	return time.Duration(backoff)
}

// retryWithBackoff issues the request, retrying transient HTTP failures only
// when the client was configured with MaxRetries > 0. The last attempt's
// response is returned unconsumed so the caller reports its status.
func (c *Client) retryWithBackoff(ctx context.Context, reqFunc func() (*http.Response, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := reqFunc()
		if err == nil {
			if resp.StatusCode == http.StatusOK || !shouldRetry(resp.StatusCode) || attempt == c.retry.MaxRetries {
				return resp, nil
			}
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
			if resp.Body != nil {
				resp.Body.Close()
			}
		} else {
			lastErr = err
			if attempt == c.retry.MaxRetries {
				break
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(calculateBackoff(attempt, c.retry)):
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.retry.MaxRetries, lastErr)
}
