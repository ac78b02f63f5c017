package search

import (
	"context"

	domdoc "github.com/finsight-cloud/finsight/internal/domain/document"
)

type mockCorpus struct {
	docs []domdoc.Document
	err  error
}

func (m *mockCorpus) All(_ context.Context) ([]domdoc.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

func corpusOf(docs ...domdoc.Document) *mockCorpus {
	return &mockCorpus{docs: docs}
}
