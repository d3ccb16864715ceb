package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/immi-ai/answer-engine/internal/embedding"
	"github.com/immi-ai/answer-engine/internal/observability"
	"github.com/immi-ai/answer-engine/internal/query"
	"github.com/immi-ai/answer-engine/internal/vectorindex"
)

// Passage is a retrieved knowledge-base chunk with its channel scores.
type Passage struct {
	Text          string
	Source        string
	Page          int
	SemanticScore float64
	LexicalScore  float64
	FinalScore    float64
}

// Options holds retrieval policy knobs.
type Options struct {
	TopK                int
	SimilarityThreshold float64
	ComparisonThreshold float64
	SemanticWeight      float64
	LexicalWeight       float64
}

// DefaultOptions returns the standard retrieval policy.
func DefaultOptions() Options {
	return Options{
		TopK:                5,
		SimilarityThreshold: 0.5,
		ComparisonThreshold: 0.3,
		SemanticWeight:      0.7,
		LexicalWeight:       0.3,
	}
}

// Retriever runs the hybrid semantic + lexical retrieval flow.
type Retriever struct {
	embedder embedding.Embedder
	index    vectorindex.Index
	opts     Options
	logger   *observability.Logger
}

// NewRetriever creates a hybrid retriever over the given collaborators.
func NewRetriever(embedder embedding.Embedder, index vectorindex.Index, opts Options, logger *observability.Logger) *Retriever {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.SemanticWeight == 0 && opts.LexicalWeight == 0 {
		opts.SemanticWeight = 0.7
		opts.LexicalWeight = 0.3
	}
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		opts:     opts,
		logger:   logger.WithOperation("retrieve"),
	}
}

// Retrieve runs every sub-query through the semantic channel, scores the
// deduplicated candidates lexically against the original query, and reranks
// by the weighted combination with category-aware boosts.
func (r *Retriever) Retrieve(ctx context.Context, original string, querySet []string, category query.Category) ([]Passage, error) {
	candidates, err := r.semanticCandidates(ctx, querySet)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	lexical := lexicalScores(original, texts)
	for i := range candidates {
		candidates[i].LexicalScore = lexical[i]
	}

	r.rerank(candidates, original, category)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FinalScore > candidates[j].FinalScore
	})

	threshold := r.opts.SimilarityThreshold
	if category == query.CategoryVisaComparison {
		threshold = r.opts.ComparisonThreshold
	}

	relevant := make([]Passage, 0, len(candidates))
	for _, c := range candidates {
		if c.FinalScore >= threshold {
			relevant = append(relevant, c)
		}
	}

	// Retrieval never returns nothing while candidate text exists: below
	// the threshold, the top two candidates are kept anyway.
	if len(relevant) == 0 {
		fallback := 2
		if fallback > len(candidates) {
			fallback = len(candidates)
		}
		relevant = candidates[:fallback]
		r.logger.Debug().
			Int("returned", len(relevant)).
			Float64("threshold", threshold).
			Msg("no passages above threshold, falling back to top candidates")
	}

	if len(relevant) > r.opts.TopK {
		relevant = relevant[:r.opts.TopK]
	}

	r.logger.Info().
		Int("candidates", len(candidates)).
		Int("returned", len(relevant)).
		Str("category", string(category)).
		Msg("retrieval complete")

	return relevant, nil
}

// semanticCandidates queries the vector index for every sub-query and
// deduplicates matches by passage text. A failing sub-query contributes
// nothing instead of aborting the whole retrieval; the retrieval only fails
// when every sub-query failed and no candidate survived.
func (r *Retriever) semanticCandidates(ctx context.Context, querySet []string) ([]Passage, error) {
	seen := make(map[string]struct{})
	var candidates []Passage
	var lastErr error

	for _, q := range querySet {
		vector, err := r.embedder.EmbedSingle(ctx, q)
		if err != nil {
			r.logger.Warn().Err(err).Str("sub_query", q).Msg("embedding failed, skipping sub-query")
			lastErr = err
			continue
		}

		matches, err := r.index.Query(ctx, vector, r.opts.TopK)
		if err != nil {
			r.logger.Warn().Err(err).Str("sub_query", q).Msg("vector query failed, skipping sub-query")
			lastErr = err
			continue
		}

		for _, m := range matches {
			text := m.Metadata.Text
			if text == "" {
				continue
			}
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			candidates = append(candidates, Passage{
				Text:          text,
				Source:        m.Metadata.Source,
				Page:          m.Metadata.Page,
				SemanticScore: m.Score,
			})
		}
	}

	if len(candidates) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all retrieval sub-queries failed: %w", lastErr)
	}

	return candidates, nil
}

// rerank combines the channel scores and applies comparison boosts, clipping
// the result to [0,1].
func (r *Retriever) rerank(candidates []Passage, original string, category query.Category) {
	comparedCodes := query.ExtractVisaCodes(original)

	for i := range candidates {
		c := &candidates[i]
		score := r.opts.SemanticWeight*c.SemanticScore + r.opts.LexicalWeight*c.LexicalScore

		if category == query.CategoryVisaComparison {
			text := strings.ToLower(c.Text)
			if mentionsAll(text, comparedCodes) {
				score *= 1.5
			} else if strings.Contains(text, "comparison") || strings.Contains(text, "difference") {
				score *= 1.3
			}
		}

		if score > 1 {
			score = 1
		}
		c.FinalScore = score
	}
}

// mentionsAll reports whether the text mentions every compared visa code.
// Fewer than two codes means there is nothing to compare.
func mentionsAll(text string, codes []string) bool {
	if len(codes) < 2 {
		return false
	}
	for _, code := range codes {
		if !strings.Contains(text, code) {
			return false
		}
	}
	return true
}
