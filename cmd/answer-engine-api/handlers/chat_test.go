package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immi-ai/answer-engine/internal/cache"
	"github.com/immi-ai/answer-engine/internal/embedding"
	"github.com/immi-ai/answer-engine/internal/generation"
	"github.com/immi-ai/answer-engine/internal/llm"
	"github.com/immi-ai/answer-engine/internal/pipeline"
	"github.com/immi-ai/answer-engine/internal/query"
	"github.com/immi-ai/answer-engine/internal/retrieval"
	"github.com/immi-ai/answer-engine/internal/security"
	"github.com/immi-ai/answer-engine/internal/vectorindex"
)

type stubCompleter struct{}

func (stubCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	return "The H-1B is a work visa.", nil
}

func newTestHandler(limiter *security.RateLimiter) *ChatHandler {
	retriever := retrieval.NewRetriever(
		embedding.NewMockClient(64),
		vectorindex.NewMemoryIndex(),
		retrieval.DefaultOptions(),
		nil,
	)
	p := pipeline.New(
		query.NewClassifier(nil),
		query.NewClarifier(),
		retriever,
		generation.NewGenerator(stubCompleter{}, nil),
		generation.NewValidator(generation.DefaultValidationRules()),
		cache.NewAnswerCache(cache.NewMemoryClient(10), time.Hour),
		limiter,
		pipeline.Options{MaskPII: false},
		nil,
	)
	return NewChatHandler(nil, p)
}

func TestChat_GreetingReturnsCannedResponse(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"hi"}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"greeting"`)
	assert.Contains(t, body, `"confidence_score":1`)
}

func TestChat_MissingQuestionRejected(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_InvalidBodyRejected(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_RateLimitMapsTo429(t *testing.T) {
	h := newTestHandler(security.NewRateLimiter(1, time.Minute))

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"hi"}`))
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"question":"hello"}`))
	req.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	h.Chat(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestChat_PIIMapsTo400(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"question":"my ssn is 123-45-6789"}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sensitive data")
}
