// Package pipeline orchestrates the full question-answering flow: security
// screening, caching, query understanding, hybrid retrieval, grounded
// generation, and response validation.
package pipeline

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/immi-ai/answer-engine/internal/cache"
	"github.com/immi-ai/answer-engine/internal/generation"
	"github.com/immi-ai/answer-engine/internal/observability"
	"github.com/immi-ai/answer-engine/internal/query"
	"github.com/immi-ai/answer-engine/internal/retrieval"
	"github.com/immi-ai/answer-engine/internal/security"
)

// Request is one chat turn from a client.
type Request struct {
	Question string
	ClientID string
	Context  query.Context
}

// Options holds pipeline-level policy knobs.
type Options struct {
	MaskPII bool

	// LowConfidenceWarn annotates answers scoring below it, on top of the
	// validator's hard floor. Zero disables the annotation.
	LowConfidenceWarn float64
}

// Pipeline wires the question-answering stages together.
type Pipeline struct {
	classifier *query.Classifier
	clarifier  *query.Clarifier
	retriever  *retrieval.Retriever
	generator  *generation.Generator
	validator  *generation.Validator
	answers    *cache.AnswerCache
	limiter    *security.RateLimiter
	opts       Options
	logger     *observability.Logger
}

// New creates a pipeline. The answer cache and rate limiter are optional;
// passing nil disables that stage.
func New(
	classifier *query.Classifier,
	clarifier *query.Clarifier,
	retriever *retrieval.Retriever,
	generator *generation.Generator,
	validator *generation.Validator,
	answers *cache.AnswerCache,
	limiter *security.RateLimiter,
	opts Options,
	logger *observability.Logger,
) *Pipeline {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Pipeline{
		classifier: classifier,
		clarifier:  clarifier,
		retriever:  retriever,
		generator:  generator,
		validator:  validator,
		answers:    answers,
		limiter:    limiter,
		opts:       opts,
		logger:     logger,
	}
}

// Answer runs one question through the full pipeline. Failures inside the
// retrieval or generation stages degrade into an apologetic structured answer
// rather than an error; only pre-processing rejections (rate limit, PII)
// return an error for the transport layer to map.
func (p *Pipeline) Answer(ctx context.Context, req Request) (generation.Answer, error) {
	if observability.RequestIDFromContext(ctx) == "" {
		ctx = observability.ContextWithRequestID(ctx, uuid.NewString())
	}
	log := p.logger.WithContext(ctx).WithOperation("answer")

	if p.limiter != nil && !p.limiter.Allow(req.ClientID) {
		log.Warn().Str("client_id", req.ClientID).Msg("rate limit exceeded")
		return generation.Answer{}, ErrRateLimitExceeded
	}

	question := req.Question
	if found, types := security.DetectPII(question); found {
		if !p.opts.MaskPII {
			log.Warn().Strs("pii_types", types).Msg("rejecting input with sensitive data")
			return generation.Answer{}, &PIIError{Types: types}
		}
		question = security.MaskPII(question)
		log.Info().Strs("pii_types", types).Msg("masked sensitive data in input")
	}

	if p.answers != nil {
		if payload, err := p.answers.Get(ctx, question); err == nil {
			var cached generation.Answer
			if err := json.Unmarshal(payload, &cached); err == nil {
				log.Info().Msg("answer cache hit")
				return p.withFirstMessageGreeting(cached, req.Context), nil
			}
		}
	}

	normalized := query.Normalize(question)
	analysis := p.classifier.Classify(normalized)

	log.Info().
		Str("category", string(analysis.Category)).
		Float64("confidence", analysis.Confidence).
		Bool("in_domain", analysis.IsInDomain).
		Msg("query classified")

	if analysis.Category == query.CategoryGreeting {
		return generation.GreetingAnswer(), nil
	}

	decision := p.clarifier.Decide(normalized, analysis, req.Context)
	if decision.State == query.StateNeedsClarification {
		confidence := analysis.Confidence
		if normalized == "yes" {
			confidence = 1.0
		}
		answer := generation.ClarificationAnswer(decision.Prompt, decision.FollowUp, confidence)
		return p.withFirstMessageGreeting(answer, req.Context), nil
	}

	working := normalized
	category := analysis.Category
	if decision.SynthesizedQuery != "" {
		working = query.Normalize(decision.SynthesizedQuery)
		analysis = p.classifier.Classify(working)
		category = analysis.Category
		log.Info().Str("synthesized", working).Msg("affirmative resolved from conversation context")
	}

	if !analysis.IsInDomain || category == query.CategoryInvalid {
		log.Info().Msg("out-of-domain question redirected")
		return p.withFirstMessageGreeting(generation.OutOfDomainAnswer(working), req.Context), nil
	}

	querySet := query.Expand(working, category)

	passages, err := p.retriever.Retrieve(ctx, working, querySet, category)
	if err != nil {
		rerr := &RetrievalError{Err: err}
		log.Error().Err(rerr).Msg("retrieval stage failed")
		return p.withFirstMessageGreeting(generation.ErrorAnswer(rerr), req.Context), nil
	}

	answer, err := p.generator.Generate(ctx, working, passages)
	if err != nil {
		gerr := &GenerationError{Err: err}
		log.Error().Err(gerr).Msg("generation stage failed")
		return p.withFirstMessageGreeting(generation.ErrorAnswer(gerr), req.Context), nil
	}

	if p.validator != nil {
		result := p.validator.Validate(answer, len(passages) > 0)
		if !result.Valid {
			verr := &ValidationError{Violations: result.Violations}
			log.Warn().Err(verr).Msg("answer failed validation")
			answer.Metadata.ValidationWarnings = verr.Violations
		}
		if result.LowConfidence {
			answer.Metadata.LowConfidence = true
		}
	}

	if p.opts.LowConfidenceWarn > 0 && answer.Metadata.ConfidenceScore < p.opts.LowConfidenceWarn {
		lcErr := &LowConfidenceError{Score: answer.Metadata.ConfidenceScore, Floor: p.opts.LowConfidenceWarn}
		log.Warn().Err(lcErr).Msg("answer confidence below warning floor")
		answer.Metadata.LowConfidence = true
	}

	// The cached payload stays greeting-free; the salutation is a per-request
	// decoration, not part of the answer.
	if p.answers != nil {
		if payload, err := json.Marshal(answer); err == nil {
			if err := p.answers.Set(ctx, question, payload); err != nil {
				log.Warn().Err(err).Msg("failed to cache answer")
			}
		}
	}

	return p.withFirstMessageGreeting(answer, req.Context), nil
}

// withFirstMessageGreeting adds the standard salutation to the first turn of
// a conversation when the answer has none of its own.
func (p *Pipeline) withFirstMessageGreeting(answer generation.Answer, ctx query.Context) generation.Answer {
	if ctx.IsFirstMessage && answer.Response.Greeting == "" {
		answer.Response.Greeting = "Hi, I'm Immi!"
	}
	return answer
}
