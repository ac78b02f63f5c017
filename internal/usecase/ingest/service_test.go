package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/finsight-cloud/finsight/internal/domain"
	domdoc "github.com/finsight-cloud/finsight/internal/domain/document"
)

type mockRepo struct {
	docs map[string]domdoc.Document
	seq  []string

	upsertErr error
	clearErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[string]domdoc.Document)}
}

func (m *mockRepo) Upsert(_ context.Context, doc *domdoc.Document) (bool, error) {
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	_, exists := m.docs[doc.ID()]
	if !exists {
		m.seq = append(m.seq, doc.ID())
	}
	m.docs[doc.ID()] = *doc
	return !exists, nil
}

func (m *mockRepo) All(_ context.Context) ([]domdoc.Document, error) {
	out := make([]domdoc.Document, 0, len(m.seq))
	for _, id := range m.seq {
		out = append(out, m.docs[id])
	}
	return out, nil
}

func (m *mockRepo) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.docs = make(map[string]domdoc.Document)
	m.seq = nil
	return nil
}

func TestService_Add(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, 1000)

	msg, err := svc.Add(context.Background(), "q1.csv", domdoc.SourceCSV, "Revenue: $500 million, Profit: $100 million")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if msg != "Successfully added 1 chunks from q1.csv" {
		t.Errorf("unexpected message: %q", msg)
	}
	if len(repo.docs) != 1 {
		t.Errorf("expected 1 stored document, got %d", len(repo.docs))
	}
}

func TestService_AddEmptyText(t *testing.T) {
	svc := New(newMockRepo(), 1000)

	_, err := svc.Add(context.Background(), "empty.csv", domdoc.SourceCSV, "")
	if !errors.Is(err, domain.ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestService_AddRepoError(t *testing.T) {
	repo := newMockRepo()
	repo.upsertErr = errors.New("store down")
	svc := New(repo, 1000)

	_, err := svc.Add(context.Background(), "q1.csv", domdoc.SourceCSV, "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, repo.upsertErr) {
		t.Errorf("store error not wrapped: %v", err)
	}
}

func TestService_Stats(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, 50)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "a.csv", domdoc.SourceCSV, "one two three four five six seven eight nine ten eleven twelve"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, "b.pdf", domdoc.SourcePDF, "short text"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", st.TotalFiles)
	}
	if st.TotalChunks < 3 {
		t.Errorf("TotalChunks = %d, want at least 3", st.TotalChunks)
	}
}

func TestService_Clear(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, 1000)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "a.csv", domdoc.SourceCSV, "text"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalFiles != 0 || st.TotalChunks != 0 {
		t.Errorf("corpus not empty after Clear: %+v", st)
	}
}
