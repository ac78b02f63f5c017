// Package search ranks corpus chunks against a query with weighted lexical
// signals and assembles bounded context blocks for the language model.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	domsearch "github.com/finsight-cloud/finsight/internal/domain/search"
	"github.com/finsight-cloud/finsight/internal/logger"
)

// Context assembly bounds.
const (
	contextResults  = 8
	contextBuffer   = 200
	contextMinSpace = 500

	// DefaultContextMaxChars bounds an assembled context block.
	DefaultContextMaxChars = 8000
)

// Service is the lexical relevance index over the stored corpus.
type Service struct {
	corpus          Corpus
	contextMaxChars int
}

// New creates a search service. maxChars <= 0 selects the default context
// budget.
func New(corpus Corpus, maxChars int) *Service {
	if maxChars <= 0 {
		maxChars = DefaultContextMaxChars
	}
	return &Service{corpus: corpus, contextMaxChars: maxChars}
}

// Search scores every chunk in the corpus against query and returns the topK
// results above the relevance threshold, best first. Ties keep corpus order.
// A blank query matches nothing.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]domsearch.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	docs, err := s.corpus.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	q := prepareQuery(query)

	var results []domsearch.Result
	for i := range docs {
		doc := &docs[i]
		for ci, chunk := range doc.Chunks() {
			score, breakdown, ok := scoreChunk(q, chunk)
			if !ok {
				continue
			}
			results = append(results, domsearch.Result{
				Content:    chunk,
				Filename:   doc.Filename(),
				SourceType: string(doc.SourceType()),
				ChunkIndex: ci,
				Source:     doc.SourceLabel(ci),
				Score:      score,
				Breakdown:  breakdown,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	logger.FromContext(ctx).Debug("search completed",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Context assembles the best-matching chunks into a single bounded block for
// prompt building. Each chunk is framed with its source and relevance.
func (s *Service) Context(ctx context.Context, query string) (string, error) {
	results, err := s.Search(ctx, query, contextResults)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, r := range results {
		addition := fmt.Sprintf("\n[Source: %s | Relevance: %.2f]\n%s\n", r.Source, r.Score, r.Content)
		if b.Len()+len(addition) <= s.contextMaxChars {
			b.WriteString(addition)
			continue
		}
		remaining := s.contextMaxChars - b.Len() - contextBuffer
		if remaining > len(r.Content) {
			remaining = len(r.Content)
		}
		if remaining > contextMinSpace {
			truncated := r.Content[:remaining] + "..."
			b.WriteString(fmt.Sprintf("\n[Source: %s | Relevance: %.2f]\n%s\n", r.Source, r.Score, truncated))
		}
		break
	}

	if b.Len() == 0 {
		return "No relevant context found.", nil
	}
	return b.String(), nil
}
