// Package vectorindex provides access to the document vector index.
package vectorindex

import "context"

// Metadata carries the stored passage fields alongside each vector.
type Metadata struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Page   int    `json:"page,omitempty"`
}

// Match is a single similarity search hit.
type Match struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Metadata Metadata `json:"metadata"`
}

// Index defines the read-only similarity search interface. The index is
// populated by an external ingestion process.
type Index interface {
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}
