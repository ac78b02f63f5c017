package search

import (
	"regexp"
	"strings"

	domsearch "github.com/finsight-cloud/finsight/internal/domain/search"
)

// Signal weights. Exact word overlap dominates, synonym expansion covers
// vocabulary drift, the rest are tie-breakers.
const (
	weightExact     = 0.40
	weightExpanded  = 0.25
	weightPartial   = 0.15
	weightPhrase    = 0.15
	weightNumerical = 0.05

	// relevanceThreshold drops chunks with no meaningful signal.
	relevanceThreshold = 0.1

	// partialMinLen keeps short stopwords out of substring matching.
	partialMinLen = 3
)

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// preparedQuery is the pre-lowered, pre-expanded form of a query, built once
// per search and reused for every chunk.
type preparedQuery struct {
	lower    string
	words    map[string]struct{}
	expanded map[string]struct{}
	bigrams  []string
	numbers  []string
}

func prepareQuery(query string) preparedQuery {
	lower := strings.ToLower(query)
	words := tokenize(lower)

	var bigrams []string
	if len(words) > 1 {
		raw := strings.Fields(lower)
		for i := 0; i+1 < len(raw); i++ {
			bigrams = append(bigrams, raw[i]+" "+raw[i+1])
		}
	}

	return preparedQuery{
		lower:    lower,
		words:    words,
		expanded: expandQuery(words),
		bigrams:  bigrams,
		numbers:  numberPattern.FindAllString(query, -1),
	}
}

// tokenize lowercases, splits on whitespace and strips punctuation from token
// edges, so "Profit:" and "profit" count as the same word.
func tokenize(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(text)) {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !isAlnum(r)
		})
		if w != "" {
			words[w] = struct{}{}
		}
	}
	return words
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r >= 'A' && r <= 'Z'
}

// scoreChunk rates one chunk against the prepared query. ok is false when the
// score does not clear the relevance threshold.
func scoreChunk(q preparedQuery, chunk string) (float64, domsearch.Breakdown, bool) {
	chunkLower := strings.ToLower(chunk)
	chunkWords := tokenize(chunkLower)

	var b domsearch.Breakdown

	if len(q.words) > 0 {
		exact := 0
		for w := range q.words {
			if _, ok := chunkWords[w]; ok {
				exact++
			}
		}
		b.Exact = float64(exact) / float64(len(q.words))
	}

	if len(q.expanded) > 0 {
		expanded := 0
		for w := range q.expanded {
			if _, ok := chunkWords[w]; ok {
				expanded++
			}
		}
		b.Expanded = float64(expanded) / float64(len(q.expanded))
	}

	if len(q.words) > 0 {
		partial := 0.0
		for qw := range q.words {
			if len(qw) <= partialMinLen {
				continue
			}
			for cw := range chunkWords {
				if strings.Contains(cw, qw) || strings.Contains(qw, cw) {
					partial += 0.5
				}
			}
		}
		b.Partial = partial / float64(len(q.words))
	}

	if len(q.bigrams) > 0 {
		phrases := 0
		for _, p := range q.bigrams {
			if strings.Contains(chunkLower, p) {
				phrases++
			}
		}
		b.Phrase = float64(phrases) / float64(len(q.bigrams))
	}

	if len(q.numbers) > 0 {
		chunkNumbers := numberPattern.FindAllString(chunk, -1)
		if len(chunkNumbers) > 0 {
			seen := make(map[string]struct{}, len(chunkNumbers))
			for _, n := range chunkNumbers {
				seen[n] = struct{}{}
			}
			matched := 0
			for _, n := range q.numbers {
				if _, ok := seen[n]; ok {
					matched++
				}
			}
			b.Numerical = float64(matched) / float64(len(q.numbers))
		}
	}

	score := b.Exact*weightExact +
		b.Expanded*weightExpanded +
		b.Partial*weightPartial +
		b.Phrase*weightPhrase +
		b.Numerical*weightNumerical

	return score, b, score > relevanceThreshold
}
