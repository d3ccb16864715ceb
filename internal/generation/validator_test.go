package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validAnswer() Answer {
	return Answer{
		Response: Body{
			Overview:  "The H-1B is a work visa.",
			KeyPoints: []string{"Requires a degree"},
			FollowUp:  []string{"Want to know more?"},
		},
		Metadata: Metadata{
			Sources:         []Source{{Document: "handbook.pdf", Page: 4, RelevanceScore: 0.9}},
			ConfidenceScore: 0.8,
		},
	}
}

func TestValidate_AcceptsCompleteAnswer(t *testing.T) {
	v := NewValidator(DefaultValidationRules())
	result := v.Validate(validAnswer(), true)

	assert.True(t, result.Valid)
	assert.False(t, result.LowConfidence)
	assert.Empty(t, result.Violations)
}

func TestValidate_ReportsMissingElements(t *testing.T) {
	v := NewValidator(DefaultValidationRules())
	answer := validAnswer()
	answer.Response.Overview = ""
	answer.Response.KeyPoints = nil

	result := v.Validate(answer, true)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Violations, "missing required element: overview")
	assert.Contains(t, result.Violations, "missing required element: key_points")
}

func TestValidate_RequiresSourcesForGroundedAnswers(t *testing.T) {
	v := NewValidator(DefaultValidationRules())
	answer := validAnswer()
	answer.Metadata.Sources = nil

	result := v.Validate(answer, true)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Violations, "insufficient source citations")

	// Canned answers cite nothing and remain valid.
	result = v.Validate(answer, false)
	assert.True(t, result.Valid)
}

func TestValidate_LowConfidenceAnnotatedNotRejected(t *testing.T) {
	v := NewValidator(DefaultValidationRules())
	answer := validAnswer()
	answer.Metadata.ConfidenceScore = 0.2

	result := v.Validate(answer, true)
	assert.True(t, result.Valid)
	assert.True(t, result.LowConfidence)
	assert.NotEmpty(t, result.Violations)
}

func TestValidate_ConfigurableFloor(t *testing.T) {
	v := NewValidator(ValidationRules{MinSources: 1, ConfidenceFloor: 0.9})
	result := v.Validate(validAnswer(), true)
	assert.True(t, result.LowConfidence)
}
