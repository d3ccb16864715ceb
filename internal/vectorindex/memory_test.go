package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_QueryOrdersByScore(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Upsert("a", []float32{1, 0, 0}, Metadata{Text: "exact", Source: "Page 1", Page: 1})
	idx.Upsert("b", []float32{1, 1, 0}, Metadata{Text: "close", Source: "Page 2", Page: 2})
	idx.Upsert("c", []float32{0, 0, 1}, Metadata{Text: "orthogonal", Source: "Page 3", Page: 3})

	matches, err := idx.Query(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "a", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, "b", matches[1].ID)
	assert.Equal(t, "c", matches[2].ID)
	assert.InDelta(t, 0.0, matches[2].Score, 1e-6)
}

func TestMemoryIndex_TopKTruncation(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Upsert("a", []float32{1, 0}, Metadata{Text: "a"})
	idx.Upsert("b", []float32{0.9, 0.1}, Metadata{Text: "b"})
	idx.Upsert("c", []float32{0.5, 0.5}, Metadata{Text: "c"})

	matches, err := idx.Query(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestMemoryIndex_SkipsDimensionMismatch(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Upsert("a", []float32{1, 0, 0}, Metadata{Text: "a"})
	idx.Upsert("b", []float32{1, 0}, Metadata{Text: "b"})

	matches, err := idx.Query(context.Background(), []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
}
