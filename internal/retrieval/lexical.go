// Package retrieval provides hybrid passage retrieval combining semantic and
// lexical channels with intent-aware reranking.
package retrieval

import (
	"math"
	"regexp"
	"strings"
)

// tokenPattern splits text into letter/digit runs, so visa codes like
// "h-1b" contribute their parts as terms.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"to": {}, "was": {}, "were": {}, "will": {}, "with": {}, "what": {},
	"which": {}, "who": {}, "how": {}, "do": {}, "does": {}, "i": {},
	"my": {}, "you": {}, "your": {}, "can": {}, "about": {},
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// lexicalScores computes the TF-IDF cosine similarity between the query and
// each candidate text. IDF is smoothed (log((1+N)/(1+df))+1) and vectors are
// L2-normalized, so scores land in [0,1]. Texts sharing no terms with the
// query score zero.
func lexicalScores(query string, texts []string) []float64 {
	scores := make([]float64, len(texts))
	if len(texts) == 0 {
		return scores
	}

	docTokens := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		docTokens[i] = tokenize(text)
		seen := make(map[string]struct{})
		for _, tok := range docTokens[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(texts))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	queryVec := tfidfVector(tokenize(query), idf)
	if len(queryVec) == 0 {
		return scores
	}

	for i := range texts {
		docVec := tfidfVector(docTokens[i], idf)
		scores[i] = dot(queryVec, docVec)
	}

	return scores
}

// tfidfVector builds an L2-normalized tf-idf vector. Terms outside the
// candidate vocabulary are dropped.
func tfidfVector(tokens []string, idf map[string]float64) map[string]float64 {
	if len(tokens) == 0 {
		return nil
	}

	tf := make(map[string]float64)
	for _, tok := range tokens {
		if _, known := idf[tok]; !known {
			continue
		}
		tf[tok]++
	}
	if len(tf) == 0 {
		return nil
	}

	var norm float64
	for term := range tf {
		tf[term] = (tf[term] / float64(len(tokens))) * idf[term]
		norm += tf[term] * tf[term]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil
	}
	for term := range tf {
		tf[term] /= norm
	}

	return tf
}

func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, av := range a {
		if bv, ok := b[term]; ok {
			sum += av * bv
		}
	}
	return sum
}
