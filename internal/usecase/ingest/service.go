// Package ingest adds extracted document text to the corpus.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domdoc "github.com/finsight-cloud/finsight/internal/domain/document"
	"github.com/finsight-cloud/finsight/internal/logger"
	"github.com/finsight-cloud/finsight/internal/metrics"
)

// Stats describes the current corpus size.
type Stats struct {
	TotalFiles  int `json:"total_files"`
	TotalChunks int `json:"total_chunks"`
}

// Service chunks incoming text and stores the resulting documents.
type Service struct {
	repo      Repository
	chunkSize int
}

// New creates an ingest service. chunkSize <= 0 selects the default.
func New(repo Repository, chunkSize int) *Service {
	if chunkSize <= 0 {
		chunkSize = domdoc.DefaultChunkSize
	}
	return &Service{repo: repo, chunkSize: chunkSize}
}

// Add chunks text and stores it under filename, replacing any previous
// version. Returns a human-readable confirmation.
func (s *Service) Add(ctx context.Context, filename string, sourceType domdoc.SourceType, text string) (string, error) {
	doc, err := domdoc.New(filename, sourceType, text, s.chunkSize)
	if err != nil {
		return "", fmt.Errorf("build document %s: %w", filename, err)
	}

	created, err := s.repo.Upsert(ctx, &doc)
	if err != nil {
		return "", fmt.Errorf("store document %s: %w", filename, err)
	}

	if created {
		metrics.DocumentsIngestedTotal.Inc()
	}
	metrics.ChunksIngestedTotal.Add(float64(len(doc.Chunks())))

	logger.FromContext(ctx).Info("document ingested",
		zap.String("filename", filename),
		zap.String("source_type", string(sourceType)),
		zap.Int("chunks", len(doc.Chunks())),
		zap.Bool("created", created),
	)

	return fmt.Sprintf("Successfully added %d chunks from %s", len(doc.Chunks()), filename), nil
}

// Clear drops the whole corpus.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear corpus: %w", err)
	}
	logger.FromContext(ctx).Info("corpus cleared")
	return nil
}

// Stats reports how many files and chunks are currently stored.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	docs, err := s.repo.All(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load corpus: %w", err)
	}
	st := Stats{TotalFiles: len(docs)}
	for i := range docs {
		st.TotalChunks += len(docs[i].Chunks())
	}
	return st, nil
}
