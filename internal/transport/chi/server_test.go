package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/finsight-cloud/finsight/internal/domain"
	"github.com/finsight-cloud/finsight/internal/domain/analysis"
	domsearch "github.com/finsight-cloud/finsight/internal/domain/search"
	ingestuc "github.com/finsight-cloud/finsight/internal/usecase/ingest"
)

func newTestRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

func TestServer_AddDocument(t *testing.T) {
	ingestor := &mockIngestor{message: "Successfully added 3 chunks from q1.csv"}
	s := NewServer(&mockAgent{}, ingestor, &mockSearcher{}, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	body := `{"filename": "q1.csv", "source_type": "csv", "text": "Revenue: $500 million"}`
	req := httptest.NewRequest("POST", "/documents", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Successfully added 3 chunks from q1.csv" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(ingestor.added) != 1 || ingestor.added[0] != "q1.csv" {
		t.Errorf("added = %v", ingestor.added)
	}
}

func TestServer_AddDocumentValidation(t *testing.T) {
	s := NewServer(&mockAgent{}, &mockIngestor{}, &mockSearcher{}, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"filename": `},
		{"missing filename", `{"text": "some text"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/documents", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d", rr.Code)
			}
		})
	}
}

func TestServer_AddEmptyDocument(t *testing.T) {
	ingestor := &mockIngestor{addErr: domain.ErrEmptyDocument}
	s := NewServer(&mockAgent{}, ingestor, &mockSearcher{}, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	body := `{"filename": "empty.csv", "text": ""}`
	req := httptest.NewRequest("POST", "/documents", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestServer_ClearDocuments(t *testing.T) {
	ingestor := &mockIngestor{}
	s := NewServer(&mockAgent{}, ingestor, &mockSearcher{}, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	req := httptest.NewRequest("DELETE", "/documents", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !ingestor.cleared {
		t.Error("Clear not called")
	}
}

func TestServer_GetStats(t *testing.T) {
	ingestor := &mockIngestor{stats: ingestuc.Stats{TotalFiles: 2, TotalChunks: 7}}
	s := NewServer(&mockAgent{}, ingestor, &mockSearcher{}, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	req := httptest.NewRequest("GET", "/stats", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var stats ingestuc.Stats
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalFiles != 2 || stats.TotalChunks != 7 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestServer_Search(t *testing.T) {
	searcher := &mockSearcher{results: []domsearch.Result{
		{Content: "Revenue: $500 million", Source: "q1.csv (chunk 1)", Score: 0.42},
	}}
	s := NewServer(&mockAgent{}, &mockIngestor{}, searcher, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	req := httptest.NewRequest("GET", "/search?q=revenue&top_k=5", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if searcher.topKs[0] != 5 {
		t.Errorf("top_k = %d, want 5", searcher.topKs[0])
	}

	var resp struct {
		Results []domsearch.Result `json:"results"`
		Total   int                `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].Score != 0.42 {
		t.Errorf("response = %+v", resp)
	}
}

func TestServer_SearchDefaultsTopK(t *testing.T) {
	searcher := &mockSearcher{}
	s := NewServer(&mockAgent{}, &mockIngestor{}, searcher, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	req := httptest.NewRequest("GET", "/search?q=revenue", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if searcher.topKs[0] != 10 {
		t.Errorf("default top_k = %d, want 10", searcher.topKs[0])
	}
}

func TestServer_SearchEmptyQuery(t *testing.T) {
	searcher := &mockSearcher{}
	s := NewServer(&mockAgent{}, &mockIngestor{}, searcher, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	req := httptest.NewRequest("GET", "/search", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
	if len(searcher.topKs) != 0 {
		t.Error("index consulted for a blank query")
	}
}

func TestServer_GetContext(t *testing.T) {
	searcher := &mockSearcher{block: "No relevant context found."}
	s := NewServer(&mockAgent{}, &mockIngestor{}, searcher, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	req := httptest.NewRequest("GET", "/context?q=anything", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No relevant context found.") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestServer_ProcessQuery(t *testing.T) {
	agent := &mockAgent{envelope: analysis.Envelope{
		Success:    true,
		Answer:     "The profit margin is 20%.",
		Confidence: 0.9,
	}}
	s := NewServer(agent, &mockIngestor{}, &mockSearcher{}, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	body := `{"query": "What is the profit margin?"}`
	req := httptest.NewRequest("POST", "/query", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var envelope analysis.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success || envelope.Answer != "The profit margin is 20%." {
		t.Errorf("envelope = %+v", envelope)
	}
	if agent.queries[0] != "What is the profit margin?" {
		t.Errorf("query = %q", agent.queries[0])
	}
}

func TestServer_ProcessQueryRequiresQuery(t *testing.T) {
	s := NewServer(&mockAgent{}, &mockIngestor{}, &mockSearcher{}, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	req := httptest.NewRequest("POST", "/query", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestServer_Health(t *testing.T) {
	s := NewServer(&mockAgent{}, &mockIngestor{}, &mockSearcher{}, &mockPinger{}, 10, zap.NewNop())
	router := newTestRouter(s)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestServer_HealthUnhealthyStore(t *testing.T) {
	s := NewServer(&mockAgent{}, &mockIngestor{}, &mockSearcher{},
		&mockPinger{err: context.DeadlineExceeded}, 10, zap.NewNop())
	router := newTestRouter(s)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rr.Code)
	}
}
