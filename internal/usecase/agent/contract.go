package agent

import (
	"context"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
	domsearch "github.com/finsight-cloud/finsight/internal/domain/search"
)

// Index is the relevance search surface the tools consume.
type Index interface {
	Search(ctx context.Context, query string, topK int) ([]domsearch.Result, error)
}

// Tool is one executable analysis step. Implementations read what they need
// from the execution context and return a structured result.
type Tool interface {
	Invoke(ctx context.Context, ec ExecutionContext) (analysis.StepResult, error)
}
