package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immi-ai/answer-engine/internal/llm"
	"github.com/immi-ai/answer-engine/internal/retrieval"
)

type stubCompleter struct {
	reply    string
	err      error
	messages []llm.Message
}

func (s *stubCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	s.messages = messages
	return s.reply, s.err
}

const sampleReply = `The H-1B is a specialty occupation work visa for professionals.

Key Points:
• Requires a bachelor's degree or equivalent in a specialty field
• The employer must file the petition on the worker's behalf
• Annual cap of 85,000 visas with a lottery system
• Premium processing is available for an extra fee

Follow-up Questions:
• Would you like to know about the application timeline?
• Are you interested in H-1B transfer rules?`

func samplePassages() []retrieval.Passage {
	return []retrieval.Passage{
		{Text: "H-1B requires a bachelor's degree.", Source: "handbook.pdf", Page: 4, FinalScore: 0.9},
		{Text: "The H-1B cap is 85,000 per year.", Source: "policy.pdf", Page: 12, FinalScore: 0.7},
	}
}

func TestGenerate_ParsesStructuredSections(t *testing.T) {
	completer := &stubCompleter{reply: sampleReply}
	g := NewGenerator(completer, nil)

	answer, err := g.Generate(context.Background(), "what is the h-1b visa", samplePassages())
	require.NoError(t, err)

	assert.Equal(t, "The H-1B is a specialty occupation work visa for professionals.", answer.Response.Overview)
	require.Len(t, answer.Response.KeyPoints, 3)
	assert.Equal(t, "Requires a bachelor's degree or equivalent in a specialty field", answer.Response.KeyPoints[0])
	require.Len(t, answer.Response.FollowUp, 2)
	assert.Equal(t, "Would you like to know about the application timeline?", answer.Response.FollowUp[0])
	assert.Equal(t, Disclaimer, answer.Response.Disclaimer)
}

func TestGenerate_PromptEmbedsTaggedPassages(t *testing.T) {
	completer := &stubCompleter{reply: sampleReply}
	g := NewGenerator(completer, nil)

	_, err := g.Generate(context.Background(), "what is the h-1b visa", samplePassages())
	require.NoError(t, err)

	require.Len(t, completer.messages, 2)
	assert.Equal(t, "system", completer.messages[0].Role)
	assert.Contains(t, completer.messages[0].Content, "[handbook.pdf: Page 4]")
	assert.Contains(t, completer.messages[0].Content, "[policy.pdf: Page 12]")
	assert.Equal(t, "what is the h-1b visa", completer.messages[1].Content)
}

func TestGenerate_MissingMarkersLeaveListsEmpty(t *testing.T) {
	completer := &stubCompleter{reply: "The F-1 visa is for international students."}
	g := NewGenerator(completer, nil)

	answer, err := g.Generate(context.Background(), "f-1 visa", samplePassages())
	require.NoError(t, err)

	assert.Equal(t, "The F-1 visa is for international students.", answer.Response.Overview)
	assert.Empty(t, answer.Response.KeyPoints)
	assert.Empty(t, answer.Response.FollowUp)
}

func TestGenerate_SkipsSalutationParagraph(t *testing.T) {
	completer := &stubCompleter{reply: "Hi there!\n\nThe O-1 visa is for individuals with extraordinary ability."}
	g := NewGenerator(completer, nil)

	answer, err := g.Generate(context.Background(), "o-1 visa", samplePassages())
	require.NoError(t, err)
	assert.Equal(t, "The O-1 visa is for individuals with extraordinary ability.", answer.Response.Overview)
}

func TestGenerate_CompletionErrorPropagates(t *testing.T) {
	completer := &stubCompleter{err: errors.New("model unavailable")}
	g := NewGenerator(completer, nil)

	_, err := g.Generate(context.Background(), "h-1b", samplePassages())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "completion failed"))
}

func TestConfidenceScore(t *testing.T) {
	passages := samplePassages()
	// mean final score 0.8, two distinct sources over two passages.
	assert.InDelta(t, 0.7*0.8+0.3*1.0, ConfidenceScore(passages), 1e-9)

	assert.Equal(t, 0.0, ConfidenceScore(nil))

	sameSource := []retrieval.Passage{
		{Source: "handbook.pdf", FinalScore: 1.0},
		{Source: "handbook.pdf", FinalScore: 1.0},
	}
	assert.InDelta(t, 0.7*1.0+0.3*0.5, ConfidenceScore(sameSource), 1e-9)
}

func TestGreetingAnswer(t *testing.T) {
	answer := GreetingAnswer()
	assert.NotEmpty(t, answer.Response.Greeting)
	assert.Empty(t, answer.Response.KeyPoints)
	assert.Len(t, answer.Response.FollowUp, 3)
	assert.Equal(t, 1.0, answer.Metadata.ConfidenceScore)
}

func TestOutOfDomainAnswer(t *testing.T) {
	answer := OutOfDomainAnswer("weather forecast for tomorrow")
	assert.Contains(t, answer.Response.Overview, "weather")
	assert.Contains(t, answer.Response.Overview, "immigration")
	assert.Empty(t, answer.Response.KeyPoints)
	assert.Len(t, answer.Response.FollowUp, 3)
	assert.Equal(t, 0.0, answer.Metadata.ConfidenceScore)
}

func TestErrorAnswer(t *testing.T) {
	answer := ErrorAnswer(errors.New("index down"))
	assert.Equal(t, "I apologize, but I encountered an error while processing your question.", answer.Response.Overview)
	assert.Empty(t, answer.Response.KeyPoints)
	assert.Equal(t, []string{"Would you like to try rephrasing your question?"}, answer.Response.FollowUp)
	assert.Equal(t, 0.0, answer.Metadata.ConfidenceScore)
	assert.Equal(t, "index down", answer.Metadata.Error)
}

func TestClarificationAnswer(t *testing.T) {
	answer := ClarificationAnswer("Are you referring to H-1B visa?", nil, 0.9)
	assert.Equal(t, "Are you referring to H-1B visa?", answer.Response.Overview)
	assert.True(t, answer.Metadata.NeedsClarification)
	assert.Equal(t, []string{"visa_category"}, answer.Metadata.ClarificationTypes)
	assert.Equal(t, 0.9, answer.Metadata.ConfidenceScore)
}
