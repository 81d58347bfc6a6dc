package repository

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Okapi BM25 parameters.
const (
	paramK1      = 1.2
	paramB       = 0.75
	paramEpsilon = 0.25
)

// guidelineDoc is one snippet prepared for ranking.
type guidelineDoc struct {
	dept string
	text string
}

type scoredDoc struct {
	index int
	score float64
}

// rankGuidelines orders docs by BM25 relevance to query and returns at
// most limit snippet texts. The department key counts twice so a query
// naming "[HR]" favours HR guidance. Ties keep insertion order.
func rankGuidelines(docs []guidelineDoc, query string, limit int) []string {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 || len(docs) == 0 {
		return nil
	}

	termFrequencies := make([]map[string]int, len(docs))
	lengths := make([]int, len(docs))
	documentFrequency := make(map[string]int)
	var totalLength int

	for i, doc := range docs {
		deptTokens := tokenize(doc.dept)
		tokens := append(append(append([]string{}, deptTokens...), deptTokens...), tokenize(doc.text)...)
		lengths[i] = len(tokens)
		totalLength += len(tokens)

		tf := make(map[string]int, len(tokens))
		for _, token := range tokens {
			if tf[token] == 0 {
				documentFrequency[token]++
			}
			tf[token]++
		}
		termFrequencies[i] = tf
	}

	averageLength := float64(totalLength) / float64(len(docs))
	count := float64(len(docs))
	idf := make(map[string]float64, len(documentFrequency))
	for term, freq := range documentFrequency {
		v := math.Log(1 + (count-float64(freq)+0.5)/(float64(freq)+0.5))
		if v < 0 {
			v = paramEpsilon
		}
		idf[term] = v
	}

	var hits []scoredDoc
	for i := range docs {
		var score float64
		for _, token := range queryTokens {
			tf := float64(termFrequencies[i][token])
			if tf == 0 {
				continue
			}
			numerator := tf * (paramK1 + 1)
			denominator := tf + paramK1*(1-paramB+paramB*float64(lengths[i])/averageLength)
			score += idf[token] * numerator / denominator
		}
		if score > 0 {
			hits = append(hits, scoredDoc{index: i, score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]string, len(hits))
	for i, hit := range hits {
		out[i] = docs[hit.index].text
	}
	return out
}

// tokenize lowercases letter/digit runs. Runs containing non-ASCII
// letters (Hangul) also emit rune bigrams, since Korean attaches
// particles to nouns and whole-word matching would miss "급여가" vs "급여".
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		tokens = append(tokens, field)
		if utf8.RuneCountInString(field) == len(field) {
			continue
		}
		runes := []rune(field)
		for i := 0; i+1 < len(runes); i++ {
			tokens = append(tokens, string(runes[i:i+2]))
		}
	}
	return tokens
}
