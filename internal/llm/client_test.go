package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string, maxRetries int) *Client {
	t.Helper()

	client, err := NewClient(Config{
		BaseURL:    serverURL,
		Model:      "test-model",
		Stream:     false,
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
	})
	require.NoError(t, err)

	if maxRetries > 0 {
		client.retry.InitialBackoff = time.Millisecond
	}
	return client
}

func TestComplete_ReturnsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"1","choices":[{"message":{"content":"The H-1B is a work visa."}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	text, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "h-1b"}})
	require.NoError(t, err)
	assert.Equal(t, "The H-1B is a work visa.", text)
}

func TestComplete_SingleAttemptByDefault(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "h-1b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestComplete_RetriesWhenConfigured(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"1","choices":[{"message":{"content":"recovered"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)

	text, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "h-1b"}})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestComplete_NonRetryableStatusNotRetried(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "h-1b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}
