package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "VISA REQUIREMENTS", "visa requirements"},
		{"strips punctuation", "What is an H1B visa?!", "what is an h-1b visa"},
		{"collapses whitespace", "  h1b   visa  ", "h-1b visa"},
		{"h1b variant", "h1b", "h-1b"},
		{"h1-b variant", "h1-b", "h-1b"},
		{"o1 variant", "tell me about o1 visas", "tell me about o-1 visas"},
		{"o1a variant", "o1a category", "o-1a category"},
		{"eb variants", "eb1 vs eb2 vs eb3", "eb-1 vs eb-2 vs eb-3"},
		{"l1 variant", "l1 transfer", "l-1 transfer"},
		{"keeps canonical form", "h-1b requirements", "h-1b requirements"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestExtractVisaCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single code", "h-1b requirements", []string{"h-1b"}},
		{"query order preserved", "difference between h-1b and o-1", []string{"h-1b", "o-1"}},
		{"reversed order preserved", "o-1 compared to h-1b", []string{"o-1", "h-1b"}},
		{"subcategory not double counted", "o-1a eligibility", []string{"o-1a"}},
		{"no codes", "green card process", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVisaCodes(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContainsVisaCode(t *testing.T) {
	assert.True(t, ContainsVisaCode("h-1b sponsorship"))
	assert.False(t, ContainsVisaCode("weather in paris"))
}
