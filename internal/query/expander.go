package query

import (
	"fmt"
	"strings"
)

// Expand widens comparison queries into per-entity sub-queries to improve
// retrieval recall. For every other category the set is just the original
// query. The result always contains the original query first and never
// contains duplicates.
func Expand(normalized string, category Category) []string {
	expanded := []string{normalized}

	if category != CategoryVisaComparison {
		return expanded
	}

	codes := ExtractVisaCodes(normalized)
	if len(codes) < 2 {
		return expanded
	}

	for _, code := range codes {
		expanded = append(expanded,
			fmt.Sprintf("%s visa", code),
			fmt.Sprintf("%s requirements", code),
			fmt.Sprintf("%s eligibility", code),
			fmt.Sprintf("%s qualification", code),
			fmt.Sprintf("qualify for %s", code),
			fmt.Sprintf("%s visa process", code),
		)
	}

	expanded = append(expanded,
		fmt.Sprintf("difference between %s", strings.Join(codes, " and ")),
		fmt.Sprintf("compare %s", strings.Join(codes, " vs ")),
		fmt.Sprintf("%s comparison", strings.Join(codes, " ")),
	)

	return dedupe(expanded)
}

func dedupe(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := queries[:0]
	for _, q := range queries {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
