package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand_ComparisonQuery(t *testing.T) {
	normalized := Normalize("What's the difference between H1B and O1 visas?")
	expanded := Expand(normalized, CategoryVisaComparison)

	assert.Equal(t, normalized, expanded[0])
	assert.Contains(t, expanded, "h-1b visa")
	assert.Contains(t, expanded, "h-1b requirements")
	assert.Contains(t, expanded, "o-1 visa")
	assert.Contains(t, expanded, "o-1 eligibility")
	assert.Contains(t, expanded, "qualify for h-1b")
	assert.Contains(t, expanded, "difference between h-1b and o-1")
	assert.Contains(t, expanded, "compare h-1b vs o-1")
	assert.GreaterOrEqual(t, len(expanded), 10)
}

func TestExpand_NonComparisonReturnsOriginalOnly(t *testing.T) {
	expanded := Expand("h-1b requirements", CategoryVisaApplication)
	assert.Equal(t, []string{"h-1b requirements"}, expanded)
}

func TestExpand_ComparisonWithSingleVisaNotExpanded(t *testing.T) {
	expanded := Expand("difference between h-1b and green card", CategoryVisaComparison)
	assert.Equal(t, []string{"difference between h-1b and green card"}, expanded)
}

func TestExpand_NoDuplicates(t *testing.T) {
	expanded := Expand("h-1b vs o-1 visa", CategoryVisaComparison)

	seen := make(map[string]int)
	for _, q := range expanded {
		seen[q]++
	}
	for q, n := range seen {
		assert.Equal(t, 1, n, q)
	}
}
