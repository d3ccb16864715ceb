package llm

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// StreamParser handles parsing of Server-Sent Events (SSE) streams.
type StreamParser struct {
	scanner *bufio.Scanner
}

// NewStreamParser creates a new stream parser.
func NewStreamParser(reader io.Reader) *StreamParser {
	return &StreamParser{
		scanner: bufio.NewScanner(reader),
	}
}

// StreamChunk represents a single chunk from the stream.
type StreamChunk struct {
	Content      string
	FinishReason string
	Done         bool
}

// Next reads the next chunk from the stream.
func (p *StreamParser) Next() (*StreamChunk, error) {
	for p.scanner.Scan() {
		line := p.scanner.Text()

		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")

		if data == "[DONE]" {
			return &StreamChunk{Done: true}, nil
		}

		var resp Response
		if err := json.Unmarshal([]byte(data), &resp); err != nil {
			// Skip invalid JSON lines
			continue
		}

		if len(resp.Choices) > 0 {
			choice := resp.Choices[0]
			return &StreamChunk{
				Content:      choice.Delta.Content,
				FinishReason: choice.FinishReason,
				Done:         choice.FinishReason != "",
			}, nil
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, err
	}

	return &StreamChunk{Done: true}, nil
}
