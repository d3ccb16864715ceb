package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/immi-ai/answer-engine/internal/observability"
)

const (
	highMatchThreshold    = 0.85
	partialMatchThreshold = 0.70
)

var ambiguousWordPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(ambiguousTerms))
	for term := range ambiguousTerms {
		patterns[term] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return patterns
}()

// Classifier scores normalized queries against the immigration vocabulary.
type Classifier struct {
	logger *observability.Logger
}

// NewClassifier creates a new intent classifier.
func NewClassifier(logger *observability.Logger) *Classifier {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Classifier{logger: logger.WithOperation("classify")}
}

// Classify analyzes a normalized query and returns its intent.
func (c *Classifier) Classify(normalized string) IntentAnalysis {
	if _, ok := greetingSet[normalized]; ok {
		return IntentAnalysis{
			IsInDomain: true,
			Confidence: 1.0,
			Category:   CategoryGreeting,
		}
	}

	// Short tokens like "h" or "eb" are plausible visa prefixes. They stay
	// in-domain with a clarification prompt, never rejected outright.
	if len(normalized) <= 3 {
		if _, ok := visaPrefixes[normalized]; ok {
			prompt, found := ambiguousTerms[normalized]
			if !found {
				prompt = fmt.Sprintf(
					"Are you asking about %s-series visas? Which specific category would you like to learn about?",
					strings.ToUpper(normalized),
				)
			}
			return IntentAnalysis{
				IsInDomain:          true,
				Confidence:          0.9,
				MatchedTerms:        []string{normalized + "-visa"},
				NeedsClarification:  true,
				ClarificationPrompt: prompt,
				Category:            CategoryVisaApplication,
			}
		}
	}

	needsClarification, prompt := checkAmbiguity(normalized)
	confidence, matched := c.keywordScore(normalized)
	inDomain := confidence > 0.7 || len(matched) > 0

	analysis := IntentAnalysis{
		IsInDomain:         inDomain,
		Confidence:         confidence,
		MatchedTerms:       matched,
		NeedsClarification: needsClarification,
		Category:           categorize(normalized, inDomain),
	}
	if needsClarification {
		analysis.ClarificationPrompt = prompt
	}

	c.logger.Debug().
		Str("category", string(analysis.Category)).
		Float64("confidence", analysis.Confidence).
		Bool("in_domain", analysis.IsInDomain).
		Bool("needs_clarification", analysis.NeedsClarification).
		Strs("matched_terms", analysis.MatchedTerms).
		Msg("classified query")

	return analysis
}

// checkAmbiguity reports whether the query contains an ambiguous whole-word
// term with no specific visa sub-category to resolve it.
func checkAmbiguity(normalized string) (bool, string) {
	for _, category := range specificVisaCategories {
		if strings.Contains(normalized, category) {
			return false, ""
		}
	}

	if strings.Contains(normalized, "o series") ||
		strings.Contains(normalized, "o-series") ||
		strings.Contains(normalized, "o visa") {
		return true, ambiguousTerms["o"]
	}

	for _, term := range ambiguousTermOrder {
		if ambiguousWordPatterns[term].MatchString(normalized) {
			return true, ambiguousTerms[term]
		}
	}

	return false, ""
}

// keywordScore computes the exact and fuzzy vocabulary match score.
// The returned confidence is the best single-term score.
func (c *Classifier) keywordScore(normalized string) (float64, []string) {
	words := strings.Fields(normalized)
	matchedSet := make(map[string]struct{})
	var maxScore float64

	for _, word := range words {
		if _, ok := allKeywords[word]; ok {
			matchedSet[word] = struct{}{}
			maxScore = 1.0
			continue
		}

		if correct, score := matchVariation(word); correct != "" {
			matchedSet[correct] = struct{}{}
			if score > maxScore {
				maxScore = score
			}
			continue
		}

		for keyword := range allKeywords {
			ratio := similarityRatio(word, keyword)
			if ratio >= partialMatchThreshold {
				matchedSet[keyword] = struct{}{}
				if ratio > maxScore {
					maxScore = ratio
				}
			}
		}
	}

	// Multi-word vocabulary terms can only match against the full query.
	for keyword := range allKeywords {
		if strings.Contains(keyword, " ") && strings.Contains(normalized, keyword) {
			matchedSet[keyword] = struct{}{}
			maxScore = 1.0
		}
	}

	matched := make([]string, 0, len(matchedSet))
	for term := range matchedSet {
		matched = append(matched, term)
	}
	sort.Strings(matched)

	return maxScore, matched
}

// matchVariation checks a word against the common misspelling table.
func matchVariation(word string) (string, float64) {
	for correct, variations := range commonVariations {
		for _, variation := range variations {
			if word == variation || similarityRatio(word, variation) > highMatchThreshold {
				return correct, 0.9
			}
		}
	}
	return "", 0
}

// categorize assigns a category to an already-scored query.
func categorize(normalized string, inDomain bool) Category {
	if !inDomain {
		return CategoryInvalid
	}

	words := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		words[w] = struct{}{}
	}

	hasComparison := false
	for indicator := range comparisonIndicators {
		if _, ok := words[indicator]; ok {
			hasComparison = true
			break
		}
	}
	if hasComparison {
		visaCount := 0
		for indicator := range visaIndicators {
			if _, ok := words[indicator]; ok {
				visaCount++
			}
		}
		if visaCount >= 2 {
			return CategoryVisaComparison
		}
	}

	best := CategoryImmigrationPolicy
	bestScore := 0
	for _, category := range []Category{
		CategoryVisaApplication,
		CategoryImmigrationPolicy,
		CategoryDocumentation,
		CategoryEligibility,
	} {
		score := 0
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(normalized, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = category
		}
	}

	return best
}
