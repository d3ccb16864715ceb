// Package query provides query normalization, intent classification,
// clarification handling, and comparison-query expansion.
package query

// Category classifies what kind of immigration question a query asks.
type Category string

const (
	CategoryGreeting          Category = "greeting"
	CategoryVisaComparison    Category = "visa_comparison"
	CategoryVisaApplication   Category = "visa_application"
	CategoryImmigrationPolicy Category = "immigration_policy"
	CategoryDocumentation     Category = "documentation"
	CategoryEligibility       Category = "eligibility"
	CategoryInvalid           Category = "invalid"
)

// IntentAnalysis is the classifier's verdict on a normalized query.
type IntentAnalysis struct {
	IsInDomain          bool
	Confidence          float64
	MatchedTerms        []string
	NeedsClarification  bool
	ClarificationPrompt string
	Category            Category
}

// Context carries the lightweight conversational state supplied by the caller.
type Context struct {
	LastTopic      string
	IsFirstMessage bool
}
