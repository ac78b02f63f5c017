package chi

import (
	"context"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
	domdoc "github.com/finsight-cloud/finsight/internal/domain/document"
	domsearch "github.com/finsight-cloud/finsight/internal/domain/search"
	ingestuc "github.com/finsight-cloud/finsight/internal/usecase/ingest"
)

type mockAgent struct {
	envelope analysis.Envelope
	queries  []string
}

func (m *mockAgent) ProcessQuery(_ context.Context, query string, _ map[string]any) analysis.Envelope {
	m.queries = append(m.queries, query)
	return m.envelope
}

type mockIngestor struct {
	message string
	stats   ingestuc.Stats
	addErr  error

	added   []string
	cleared bool
}

func (m *mockIngestor) Add(_ context.Context, filename string, _ domdoc.SourceType, _ string) (string, error) {
	if m.addErr != nil {
		return "", m.addErr
	}
	m.added = append(m.added, filename)
	return m.message, nil
}

func (m *mockIngestor) Clear(context.Context) error {
	m.cleared = true
	return nil
}

func (m *mockIngestor) Stats(context.Context) (ingestuc.Stats, error) {
	return m.stats, nil
}

type mockSearcher struct {
	results []domsearch.Result
	block   string
	err     error

	topKs []int
}

func (m *mockSearcher) Search(_ context.Context, _ string, topK int) ([]domsearch.Result, error) {
	m.topKs = append(m.topKs, topK)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockSearcher) Context(context.Context, string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.block, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }
