package agent

import (
	"context"
	"fmt"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
)

// DefaultSearchTopK bounds how many hits a search step collects.
const DefaultSearchTopK = 10

const highRelevance = 0.7

// searchTool runs the relevance index and enriches each hit with a content
// type tag and extracted metrics for the downstream analysis tools.
type searchTool struct {
	index Index
	topK  int
}

var _ Tool = (*searchTool)(nil)

func (t *searchTool) Invoke(ctx context.Context, ec ExecutionContext) (analysis.StepResult, error) {
	topK := t.topK
	if topK <= 0 {
		topK = DefaultSearchTopK
	}

	hits, err := t.index.Search(ctx, ec.SearchQuery(), topK)
	if err != nil {
		return analysis.StepResult{}, fmt.Errorf("search documents: %w", err)
	}

	if len(hits) == 0 {
		return analysis.StepResult{
			Documents: []analysis.DocumentHit{},
			Summary:   "No relevant documents found",
		}, nil
	}

	docs := make([]analysis.DocumentHit, 0, len(hits))
	highly := 0
	for _, h := range hits {
		if h.Score > highRelevance {
			highly++
		}
		docs = append(docs, analysis.DocumentHit{
			Content:     h.Content,
			Source:      h.Filename,
			Relevance:   h.Score,
			ContentType: detectContentType(h.Content),
			KeyMetrics:  extractKeyMetrics(h.Content),
		})
	}

	var summary string
	if highly > 0 {
		summary = fmt.Sprintf("Found %d highly relevant documents containing information about %s.", highly, ec.SearchQuery())
	} else {
		summary = fmt.Sprintf("Found %d potentially relevant documents.", len(docs))
	}

	return analysis.StepResult{
		Documents:  docs,
		Summary:    summary,
		TotalFound: len(docs),
	}, nil
}
