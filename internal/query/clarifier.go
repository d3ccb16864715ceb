package query

import (
	"fmt"
	"strings"
)

// ClarificationState is the clarifier's verdict for a single turn.
type ClarificationState int

const (
	// StateSpecific means the query can proceed to retrieval.
	StateSpecific ClarificationState = iota
	// StateNeedsClarification means a follow-up question set is returned
	// instead of an answer, ending this turn.
	StateNeedsClarification
)

// ClarificationTypeVisaCategory is reported when the ambiguity concerns
// which visa category the user means.
const ClarificationTypeVisaCategory = "visa_category"

// Decision is the clarifier's output for one turn. At most one clarification
// round is modeled; multi-turn clarification depth is not tracked.
type Decision struct {
	State              ClarificationState
	Prompt             string
	FollowUp           []string
	ClarificationTypes []string

	// SynthesizedQuery replaces the user's query when an affirmative answer
	// plus conversational context fully resolve the ambiguity.
	SynthesizedQuery string
}

// Clarifier decides whether a classified query is specific enough to answer.
type Clarifier struct{}

// NewClarifier creates a new clarification engine.
func NewClarifier() *Clarifier {
	return &Clarifier{}
}

var affirmativeTokens = map[string]struct{}{
	"yes": {},
}

// Decide applies the clarification rules to a normalized query, its intent
// analysis, and the caller-supplied conversational context.
func (c *Clarifier) Decide(normalized string, analysis IntentAnalysis, ctx Context) Decision {
	if _, affirmative := affirmativeTokens[normalized]; affirmative {
		lastTopic := Normalize(ctx.LastTopic)

		if codes := ExtractVisaCodes(lastTopic); len(codes) > 0 {
			// The previous topic names a visa, so the "yes" fully resolves:
			// synthesize the follow-up query and proceed without re-asking.
			return Decision{
				State: StateSpecific,
				SynthesizedQuery: fmt.Sprintf(
					"What are the %s visa requirements and process",
					strings.ToUpper(codes[0]),
				),
			}
		}

		return Decision{
			State:              StateNeedsClarification,
			Prompt:             "Could you please specify which type of visa you're interested in?",
			ClarificationTypes: []string{ClarificationTypeVisaCategory},
			FollowUp: []string{
				"Are you interested in H-1B work visas?",
				"Are you interested in F-1 student visas?",
				"Or would you like to learn about a different visa type?",
			},
		}
	}

	if analysis.NeedsClarification {
		return Decision{
			State:              StateNeedsClarification,
			Prompt:             analysis.ClarificationPrompt,
			ClarificationTypes: []string{ClarificationTypeVisaCategory},
			FollowUp: []string{
				analysis.ClarificationPrompt,
			},
		}
	}

	return Decision{State: StateSpecific}
}
