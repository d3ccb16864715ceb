package query

import (
	"regexp"
	"sort"
	"strings"
)

// specialChars matches everything except word characters, whitespace and
// hyphens. Hyphens survive so canonical visa codes like "h-1b" stay intact.
var specialChars = regexp.MustCompile(`[^\w\s-]`)

// codeReplacements rewrites visa-code spelling variants to canonical form.
// Order matters: longer variants must be rewritten before their prefixes.
var codeReplacements = []struct{ from, to string }{
	{"h1-b", "h-1b"},
	{"h1 b", "h-1b"},
	{"h1b", "h-1b"},
	{"h2b", "h-2b"},
	{"o1a", "o-1a"},
	{"o1b", "o-1b"},
	{"o1", "o-1"},
	{"o2", "o-2"},
	{"o3", "o-3"},
	{"l1", "l-1"},
	{"eb1", "eb-1"},
	{"eb2", "eb-2"},
	{"eb3", "eb-3"},
	{"j1", "j-1"},
	{"f1", "f-1"},
	{"b1", "b-1"},
	{"b2", "b-2"},
}

// Normalize lowercases, strips punctuation, collapses whitespace, and
// canonicalizes visa-code spelling variants.
func Normalize(raw string) string {
	q := strings.ToLower(raw)
	q = specialChars.ReplaceAllString(q, " ")
	q = strings.Join(strings.Fields(q), " ")

	for _, r := range codeReplacements {
		q = strings.ReplaceAll(q, r.from, r.to)
	}

	return strings.Join(strings.Fields(q), " ")
}

// canonicalVisaCodes lists the visa codes the pipeline recognizes, most
// specific first so sub-categories win over their prefixes.
var canonicalVisaCodes = []string{
	"o-1a", "o-1b", "o-2", "o-3", "o-1",
	"h-1b", "h-2b", "l-1",
	"eb-1", "eb-2", "eb-3",
	"j-1", "f-1", "b-1", "b-2",
}

var visaCodePatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(canonicalVisaCodes))
	for _, code := range canonicalVisaCodes {
		patterns[code] = regexp.MustCompile(`\b` + regexp.QuoteMeta(code) + `\b`)
	}
	return patterns
}()

// ExtractVisaCodes returns the canonical visa codes mentioned in the text as
// whole words, in order of appearance. The input should already be normalized.
func ExtractVisaCodes(text string) []string {
	type located struct {
		code string
		pos  int
	}
	var found []located
	for _, code := range canonicalVisaCodes {
		if loc := visaCodePatterns[code].FindStringIndex(text); loc != nil {
			found = append(found, located{code: code, pos: loc[0]})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	codes := make([]string, 0, len(found))
	for _, f := range found {
		codes = append(codes, f.code)
	}
	return codes
}

// ContainsVisaCode reports whether the normalized text mentions any
// canonical visa code.
func ContainsVisaCode(text string) bool {
	return len(ExtractVisaCodes(text)) > 0
}
