package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Greetings(t *testing.T) {
	c := NewClassifier(nil)

	for _, greeting := range []string{"hi", "hello", "hey", "hi there", "hello there", "greetings"} {
		analysis := c.Classify(greeting)
		assert.Equal(t, CategoryGreeting, analysis.Category, greeting)
		assert.Equal(t, 1.0, analysis.Confidence, greeting)
		assert.True(t, analysis.IsInDomain, greeting)
		assert.False(t, analysis.NeedsClarification, greeting)
	}
}

func TestClassify_ShortVisaPrefix(t *testing.T) {
	c := NewClassifier(nil)

	analysis := c.Classify("eb")
	assert.True(t, analysis.IsInDomain)
	assert.True(t, analysis.NeedsClarification)
	assert.Contains(t, analysis.ClarificationPrompt, "EB-1, EB-2, or EB-3")
	assert.InDelta(t, 0.9, analysis.Confidence, 1e-9)
	assert.Equal(t, CategoryVisaApplication, analysis.Category)

	analysis = c.Classify("h")
	assert.True(t, analysis.NeedsClarification)
	assert.Contains(t, analysis.ClarificationPrompt, "H-1B")

	analysis = c.Classify("j")
	assert.True(t, analysis.NeedsClarification)
	assert.Contains(t, analysis.ClarificationPrompt, "J-series")
}

func TestClassify_CanonicalCodeResolvesDirectly(t *testing.T) {
	c := NewClassifier(nil)

	analysis := c.Classify("h-1b requirements")
	assert.True(t, analysis.IsInDomain)
	assert.False(t, analysis.NeedsClarification)
	assert.Equal(t, 1.0, analysis.Confidence)
	assert.Contains(t, analysis.MatchedTerms, "h-1b")
}

func TestClassify_AmbiguousTerms(t *testing.T) {
	c := NewClassifier(nil)

	analysis := c.Classify("what is my visa")
	assert.True(t, analysis.NeedsClarification)
	assert.Equal(t, "Which type of visa are you interested in?", analysis.ClarificationPrompt)

	analysis = c.Classify("check my status")
	assert.True(t, analysis.NeedsClarification)
	assert.Contains(t, analysis.ClarificationPrompt, "visa status")

	// A specific sub-category suppresses the ambiguity check.
	analysis = c.Classify("o-1a visa eligibility")
	assert.False(t, analysis.NeedsClarification)
}

func TestClassify_OSeriesNeedsCategory(t *testing.T) {
	c := NewClassifier(nil)

	analysis := c.Classify("tell me about the o series")
	assert.True(t, analysis.NeedsClarification)
	assert.Contains(t, analysis.ClarificationPrompt, "O-1A")
}

func TestClassify_ComparisonCategory(t *testing.T) {
	c := NewClassifier(nil)

	analysis := c.Classify(Normalize("What's the difference between H1B and O1 visas?"))
	assert.Equal(t, CategoryVisaComparison, analysis.Category)
	assert.True(t, analysis.IsInDomain)
	assert.False(t, analysis.NeedsClarification)
}

func TestClassify_OutOfDomain(t *testing.T) {
	c := NewClassifier(nil)

	analysis := c.Classify("what is the weather today")
	assert.False(t, analysis.IsInDomain)
	assert.Equal(t, CategoryInvalid, analysis.Category)
	assert.LessOrEqual(t, analysis.Confidence, 0.7)
}

func TestClassify_MisspellingsStillMatch(t *testing.T) {
	c := NewClassifier(nil)

	analysis := c.Classify("viza requirements")
	assert.True(t, analysis.IsInDomain)
	assert.Contains(t, analysis.MatchedTerms, "visa")
	assert.GreaterOrEqual(t, analysis.Confidence, 0.7)
}

func TestSimilarityRatio(t *testing.T) {
	assert.Equal(t, 1.0, similarityRatio("visa", "visa"))
	assert.Equal(t, 0.0, similarityRatio("", "visa"))
	assert.Greater(t, similarityRatio("imigration", "immigration"), 0.85)
	assert.Less(t, similarityRatio("weather", "visa"), 0.5)
}
