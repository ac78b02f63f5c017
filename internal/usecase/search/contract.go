package search

import (
	"context"

	domdoc "github.com/finsight-cloud/finsight/internal/domain/document"
)

// Corpus supplies the documents to rank.
type Corpus interface {
	All(ctx context.Context) ([]domdoc.Document, error)
}
