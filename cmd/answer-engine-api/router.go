// Package main provides the API router setup.
package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/immi-ai/answer-engine/cmd/answer-engine-api/handlers"
	"github.com/immi-ai/answer-engine/cmd/answer-engine-api/middleware"
	"github.com/immi-ai/answer-engine/internal/cache"
	"github.com/immi-ai/answer-engine/internal/config"
	"github.com/immi-ai/answer-engine/internal/embedding"
	"github.com/immi-ai/answer-engine/internal/generation"
	"github.com/immi-ai/answer-engine/internal/llm"
	"github.com/immi-ai/answer-engine/internal/observability"
	"github.com/immi-ai/answer-engine/internal/pipeline"
	"github.com/immi-ai/answer-engine/internal/query"
	"github.com/immi-ai/answer-engine/internal/retrieval"
	"github.com/immi-ai/answer-engine/internal/security"
	"github.com/immi-ai/answer-engine/internal/vectorindex"
)

// NewRouter wires the service dependencies and configures all routes.
func NewRouter(logger *observability.Logger, cfg *config.Config) (http.Handler, error) {
	p, err := buildPipeline(logger, cfg)
	if err != nil {
		return nil, err
	}

	chatHandler := handlers.NewChatHandler(logger, p)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"answer-engine"}`))
	})

	r.Post("/chat", chatHandler.Chat)

	return r, nil
}

// buildPipeline constructs the question-answering pipeline from configuration.
func buildPipeline(logger *observability.Logger, cfg *config.Config) (*pipeline.Pipeline, error) {
	var cacheClient cache.Client
	if cfg.Cache.Driver == "redis" {
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		cacheClient = client
	} else {
		cacheClient = cache.NewMemoryClient(0)
	}
	answers := cache.NewAnswerCache(cacheClient, cfg.Cache.TTL)

	embedder, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}

	index, err := vectorindex.NewClient(vectorindex.Config{
		BaseURL:   cfg.VectorIndex.BaseURL,
		APIKey:    cfg.VectorIndex.APIKey,
		Namespace: cfg.VectorIndex.Namespace,
		Timeout:   cfg.VectorIndex.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create vector index client: %w", err)
	}

	completer, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Stream:      cfg.LLM.Stream,
		Timeout:     cfg.LLM.Timeout,
		MaxRetries:  cfg.LLM.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}

	retriever := retrieval.NewRetriever(embedder, index, retrieval.Options{
		TopK:                cfg.Retrieval.TopK,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		ComparisonThreshold: cfg.Retrieval.ComparisonThreshold,
		SemanticWeight:      cfg.Retrieval.SemanticWeight,
		LexicalWeight:       cfg.Retrieval.LexicalWeight,
	}, logger)

	generator := generation.NewGenerator(completer, logger)
	validator := generation.NewValidator(generation.ValidationRules{
		MinSources:      cfg.Generation.MinSources,
		ConfidenceFloor: cfg.Generation.ConfidenceFloor,
	})

	limiter := security.NewRateLimiter(cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow)

	return pipeline.New(
		query.NewClassifier(logger),
		query.NewClarifier(),
		retriever,
		generator,
		validator,
		answers,
		limiter,
		pipeline.Options{
			MaskPII:           cfg.Security.MaskPII,
			LowConfidenceWarn: cfg.Generation.LowConfidenceWarn,
		},
		logger,
	), nil
}
