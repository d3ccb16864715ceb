// Package generation builds grounded prompts from retrieved passages,
// invokes the language model, and parses the reply into a structured answer.
package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/immi-ai/answer-engine/internal/llm"
	"github.com/immi-ai/answer-engine/internal/observability"
	"github.com/immi-ai/answer-engine/internal/retrieval"
)

const systemPromptTemplate = `You are Immi.ai, a confident and warmhearted AI assistant specializing in US immigration. Your answers must be based solely on the provided context from the visa handbook and immigration policy documents.

Scope & Behavior:
1. Answer only visa and immigration questions, covering application processes, eligibility, documentation requirements, and immigration policies.
2. Think step by step and verify that your answer strictly derives from the provided context. Do not include external information.
3. Be confident but professional. Show sincere kindness while staying accurate.

Response Format:
[One clear sentence overview of the topic]

Key Points:
• [First key point - one line only]
• [Second key point - one line only]
• [Third key point - one line only]

Follow-up Questions:
• [Specific follow-up question about the topic]?
• [Another relevant follow-up question]?

CONTEXT:
%s`

const (
	keyPointsMarker = "Key Points:"
	followUpMarker  = "Follow-up Questions:"

	maxKeyPoints = 3
	maxFollowUp  = 3
)

// Generator produces grounded structured answers via a language model.
type Generator struct {
	completer llm.Completer
	logger    *observability.Logger
}

// NewGenerator creates an answer generator over the given completion client.
func NewGenerator(completer llm.Completer, logger *observability.Logger) *Generator {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Generator{
		completer: completer,
		logger:    logger.WithOperation("generate"),
	}
}

// Generate builds the grounded prompt, runs the completion, and parses the
// structured sections of the reply. The confidence score comes from passage
// quality, not from the model.
func (g *Generator) Generate(ctx context.Context, query string, passages []retrieval.Passage) (Answer, error) {
	messages := []llm.Message{
		{Role: "system", Content: fmt.Sprintf(systemPromptTemplate, formatContext(passages))},
		{Role: "user", Content: query},
	}

	text, err := g.completer.Complete(ctx, messages)
	if err != nil {
		return Answer{}, fmt.Errorf("completion failed: %w", err)
	}

	overview, keyPoints, followUp := parseSections(text)

	answer := Answer{
		Response: Body{
			Overview:   overview,
			KeyPoints:  keyPoints,
			FollowUp:   followUp,
			Disclaimer: Disclaimer,
		},
		Metadata: Metadata{
			Sources:         formatSources(passages),
			ConfidenceScore: ConfidenceScore(passages),
		},
	}

	g.logger.Debug().
		Int("passages", len(passages)).
		Int("key_points", len(keyPoints)).
		Float64("confidence", answer.Metadata.ConfidenceScore).
		Msg("generated structured answer")

	return answer, nil
}

// ConfidenceScore combines mean passage relevance with source diversity,
// clipped to [0,1]. No passages means no confidence.
func ConfidenceScore(passages []retrieval.Passage) float64 {
	if len(passages) == 0 {
		return 0
	}

	var sum float64
	distinct := make(map[string]struct{})
	for _, p := range passages {
		sum += p.FinalScore
		distinct[p.Source] = struct{}{}
	}

	n := float64(len(passages))
	score := 0.7*(sum/n) + 0.3*(float64(len(distinct))/n)
	if score > 1 {
		score = 1
	}
	return score
}

// formatContext tags every passage with its document and page so the model
// can cite them.
func formatContext(passages []retrieval.Passage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = fmt.Sprintf("[%s: Page %d]\n%s", p.Source, p.Page, p.Text)
	}
	return strings.Join(parts, "\n\n")
}

func formatSources(passages []retrieval.Passage) []Source {
	sources := make([]Source, len(passages))
	for i, p := range passages {
		sources[i] = Source{
			Document:       p.Source,
			Page:           p.Page,
			RelevanceScore: p.FinalScore,
		}
	}
	return sources
}

// parseSections splits the model reply on the literal section markers. A
// missing marker leaves that list empty rather than failing the request.
func parseSections(text string) (overview string, keyPoints, followUp []string) {
	keyPoints = []string{}
	followUp = []string{}

	// The overview is the first paragraph that is not a salutation.
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		if strings.HasPrefix(lower, "hi") || strings.HasPrefix(lower, "hello") || strings.HasPrefix(lower, "hey") {
			continue
		}
		overview = firstLine(part)
		break
	}

	if idx := strings.Index(text, keyPointsMarker); idx >= 0 {
		section := text[idx+len(keyPointsMarker):]
		if end := strings.Index(section, followUpMarker); end >= 0 {
			section = section[:end]
		}
		keyPoints = parseBullets(section, maxKeyPoints)
	}

	if idx := strings.Index(text, followUpMarker); idx >= 0 {
		followUp = parseBullets(text[idx+len(followUpMarker):], maxFollowUp)
	}

	return overview, keyPoints, followUp
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}

// parseBullets collects lines starting with a bullet marker, up to limit.
func parseBullets(section string, limit int) []string {
	var bullets []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		var item string
		switch {
		case strings.HasPrefix(line, "•"):
			item = strings.TrimSpace(strings.TrimPrefix(line, "•"))
		case strings.HasPrefix(line, "- "):
			item = strings.TrimSpace(strings.TrimPrefix(line, "- "))
		default:
			continue
		}
		if item == "" {
			continue
		}
		bullets = append(bullets, item)
		if len(bullets) == limit {
			break
		}
	}
	if bullets == nil {
		return []string{}
	}
	return bullets
}
