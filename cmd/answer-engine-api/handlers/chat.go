// Package handlers provides HTTP handlers for the answer engine API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/immi-ai/answer-engine/internal/observability"
	"github.com/immi-ai/answer-engine/internal/pipeline"
	"github.com/immi-ai/answer-engine/internal/query"
)

// ChatHandler handles question-answering requests.
type ChatHandler struct {
	logger   *observability.Logger
	pipeline *pipeline.Pipeline
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, p *pipeline.Pipeline) *ChatHandler {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &ChatHandler{
		logger:   logger,
		pipeline: p,
	}
}

// ChatRequestDTO represents the API request for one chat turn.
type ChatRequestDTO struct {
	Question       string         `json:"question"`
	Context        ChatContextDTO `json:"context"`
	IsFirstMessage bool           `json:"is_first_message"`
}

// ChatContextDTO carries conversational state from the client.
type ChatContextDTO struct {
	LastTopic string `json:"last_topic"`
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
		ctx = observability.ContextWithRequestID(ctx, reqID)
	}

	var reqDTO ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if reqDTO.Question == "" {
		h.writeError(w, http.StatusBadRequest, "question is required", "")
		return
	}

	answer, err := h.pipeline.Answer(ctx, pipeline.Request{
		Question: reqDTO.Question,
		ClientID: r.RemoteAddr,
		Context: query.Context{
			LastTopic:      reqDTO.Context.LastTopic,
			IsFirstMessage: reqDTO.IsFirstMessage,
		},
	})
	if err != nil {
		var piiErr *pipeline.PIIError
		switch {
		case errors.Is(err, pipeline.ErrRateLimitExceeded):
			h.writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "")
		case errors.As(err, &piiErr):
			h.writeError(w, http.StatusBadRequest, "input contains sensitive data", piiErr.Error())
		default:
			h.logger.Error().Err(err).Msg("Chat request failed")
			h.writeError(w, http.StatusInternalServerError, "request failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(answer); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	json.NewEncoder(w).Encode(resp)
}
