package generation

import "fmt"

// ValidationRules configures answer validation. The thresholds are policy
// values, not constants, because different deployments tune them.
type ValidationRules struct {
	MinSources      int
	ConfidenceFloor float64
}

// DefaultValidationRules returns the standard validation policy.
func DefaultValidationRules() ValidationRules {
	return ValidationRules{
		MinSources:      1,
		ConfidenceFloor: 0.4,
	}
}

// ValidationResult reports what a generated answer is missing. Violations are
// surfaced to the caller, never silently dropped.
type ValidationResult struct {
	Valid         bool
	LowConfidence bool
	Violations    []string
}

// Validator checks generated answers against the configured rules.
type Validator struct {
	rules ValidationRules
}

// NewValidator creates a validator with the given rules.
func NewValidator(rules ValidationRules) *Validator {
	return &Validator{rules: rules}
}

// Validate checks required elements, source citations, and the confidence
// floor. usedPassages distinguishes grounded answers, which must cite at
// least MinSources, from canned ones, which cite nothing.
func (v *Validator) Validate(answer Answer, usedPassages bool) ValidationResult {
	result := ValidationResult{Valid: true}

	if answer.Response.Overview == "" {
		result.Violations = append(result.Violations, "missing required element: overview")
		result.Valid = false
	}
	if len(answer.Response.KeyPoints) == 0 {
		result.Violations = append(result.Violations, "missing required element: key_points")
		result.Valid = false
	}
	if len(answer.Response.FollowUp) == 0 {
		result.Violations = append(result.Violations, "missing required element: follow_up")
		result.Valid = false
	}

	if usedPassages && len(answer.Metadata.Sources) < v.rules.MinSources {
		result.Violations = append(result.Violations, "insufficient source citations")
		result.Valid = false
	}

	if answer.Metadata.ConfidenceScore < v.rules.ConfidenceFloor {
		result.Violations = append(result.Violations,
			fmt.Sprintf("confidence score %.2f below threshold %.2f",
				answer.Metadata.ConfidenceScore, v.rules.ConfidenceFloor))
		result.LowConfidence = true
	}

	return result
}
