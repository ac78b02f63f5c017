package ingest

import (
	"context"

	domdoc "github.com/finsight-cloud/finsight/internal/domain/document"
)

// Repository persists the document corpus.
type Repository interface {
	Upsert(ctx context.Context, doc *domdoc.Document) (created bool, err error)
	All(ctx context.Context) ([]domdoc.Document, error)
	Clear(ctx context.Context) error
}
