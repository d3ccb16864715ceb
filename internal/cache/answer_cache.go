package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// AnswerCache stores final answer payloads keyed by an exact-match hash of the
// query. Lookups before and writes after a pipeline run make repeated
// questions cheap without any semantic similarity machinery.
type AnswerCache struct {
	client Client
	ttl    time.Duration
}

// NewAnswerCache creates an answer cache over the given backend.
func NewAnswerCache(client Client, ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AnswerCache{client: client, ttl: ttl}
}

// QueryKey hashes the lowercased query text. Hashing happens before
// normalization so the cache and the pipeline stay independent.
func QueryKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(query)))
	return "answer:" + hex.EncodeToString(sum[:])
}

// Get returns the cached payload for a query, or ErrCacheMiss.
func (c *AnswerCache) Get(ctx context.Context, query string) ([]byte, error) {
	return c.client.Get(ctx, QueryKey(query))
}

// Set stores an answer payload for a query with the configured TTL.
func (c *AnswerCache) Set(ctx context.Context, query string, payload []byte) error {
	return c.client.Set(ctx, QueryKey(query), payload, c.ttl)
}

// Invalidate removes a cached answer for the given query.
func (c *AnswerCache) Invalidate(ctx context.Context, query string) error {
	return c.client.Delete(ctx, QueryKey(query))
}
