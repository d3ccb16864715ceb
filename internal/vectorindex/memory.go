package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is an in-memory cosine similarity index for development and
// tests. Vectors are normalized on insert so search is a dot product.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	vector   []float32
	metadata Metadata
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]memoryEntry)}
}

// Upsert adds or replaces a vector with its metadata.
func (m *MemoryIndex) Upsert(id string, vector []float32, metadata Metadata) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = memoryEntry{
		vector:   normalizeVector(vector),
		metadata: metadata,
	}
}

// Query returns the topK nearest entries by cosine similarity.
func (m *MemoryIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query := normalizeVector(vector)

	matches := make([]Match, 0, len(m.entries))
	for id, entry := range m.entries {
		if len(entry.vector) != len(query) {
			continue
		}
		matches = append(matches, Match{
			ID:       id,
			Score:    dotProduct(query, entry.vector),
			Metadata: entry.metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}

	return matches, nil
}

// Len returns the number of indexed vectors.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func dotProduct(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	// Clamp for floating point drift
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return dot
}

func normalizeVector(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)

	if norm == 0 {
		return v
	}

	normalized := make([]float32, len(v))
	for i, x := range v {
		normalized[i] = float32(float64(x) / norm)
	}

	return normalized
}

var _ Index = (*MemoryIndex)(nil)
