// Package security provides PII screening and per-client rate limiting for
// incoming chat requests.
package security

import (
	"regexp"
	"sort"
	"strings"
)

type piiPattern struct {
	name    string
	pattern *regexp.Regexp
}

var piiPatterns = []piiPattern{
	{"email", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{"phone", regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)},
	{"ssn", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"passport", regexp.MustCompile(`\b[A-Z]\d{8}\b`)},
}

// DetectPII reports whether the text contains sensitive data and which
// pattern types matched, sorted by name.
func DetectPII(text string) (bool, []string) {
	var found []string
	for _, p := range piiPatterns {
		if p.pattern.MatchString(text) {
			found = append(found, p.name)
		}
	}
	sort.Strings(found)
	return len(found) > 0, found
}

// MaskPII replaces every sensitive match with a typed placeholder.
func MaskPII(text string) string {
	masked := text
	for _, p := range piiPatterns {
		masked = p.pattern.ReplaceAllString(masked, "[MASKED_"+strings.ToUpper(p.name)+"]")
	}
	return masked
}
