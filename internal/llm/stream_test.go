package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamParser_Next(t *testing.T) {
	input := strings.Join([]string{
		`data: {"id":"1","choices":[{"delta":{"content":"Hello"}}]}`,
		``,
		`: keep-alive comment`,
		`data: {"id":"1","choices":[{"delta":{"content":" world"}}]}`,
		`data: not-json`,
		`data: [DONE]`,
	}, "\n")

	parser := NewStreamParser(strings.NewReader(input))

	chunk, err := parser.Next()
	require.NoError(t, err)
	assert.Equal(t, "Hello", chunk.Content)
	assert.False(t, chunk.Done)

	chunk, err = parser.Next()
	require.NoError(t, err)
	assert.Equal(t, " world", chunk.Content)

	chunk, err = parser.Next()
	require.NoError(t, err)
	assert.True(t, chunk.Done)
}

func TestStreamParser_FinishReasonEndsStream(t *testing.T) {
	input := `data: {"id":"1","choices":[{"delta":{"content":"done"},"finish_reason":"stop"}]}`

	parser := NewStreamParser(strings.NewReader(input))

	chunk, err := parser.Next()
	require.NoError(t, err)
	assert.Equal(t, "done", chunk.Content)
	assert.True(t, chunk.Done)
}

func TestStreamParser_EmptyStream(t *testing.T) {
	parser := NewStreamParser(strings.NewReader(""))

	chunk, err := parser.Next()
	require.NoError(t, err)
	assert.True(t, chunk.Done)
	assert.Empty(t, chunk.Content)
}
