package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRateLimitExceeded is returned before any processing when the client has
// used up its request quota.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// PIIError is returned when the input matched a sensitive-data pattern and
// masking is disabled.
type PIIError struct {
	Types []string
}

func (e *PIIError) Error() string {
	return fmt.Sprintf("input contains sensitive data: %s", strings.Join(e.Types, ", "))
}

// RetrievalError marks an unrecoverable failure of the retrieval stage.
// Individual sub-query failures are absorbed inside the retriever and never
// surface as this.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return "retrieval failed: " + e.Err.Error() }
func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError marks a failed language-model call or an unusable reply.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "generation failed: " + e.Err.Error() }
func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError reports required structured fields missing from an answer.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "response validation failed: " + strings.Join(e.Violations, "; ")
}

// LowConfidenceError reports an answer below the configured confidence floor.
// Such answers are still returned to the caller, annotated.
type LowConfidenceError struct {
	Score float64
	Floor float64
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("answer confidence %.2f below floor %.2f", e.Score, e.Floor)
}
