// Package chi exposes the finsight HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/finsight-cloud/finsight/internal/domain"
	"github.com/finsight-cloud/finsight/internal/domain/analysis"
	domdoc "github.com/finsight-cloud/finsight/internal/domain/document"
	domsearch "github.com/finsight-cloud/finsight/internal/domain/search"
	ingestuc "github.com/finsight-cloud/finsight/internal/usecase/ingest"
	"github.com/finsight-cloud/finsight/internal/version"
)

// Error response codes.
const (
	codeBadRequest    = "bad_request"
	codeUpstreamError = "llm_provider_error"
	codeInternalError = "internal_error"
)

// Agent answers queries over the corpus.
type Agent interface {
	ProcessQuery(ctx context.Context, query string, contextData map[string]any) analysis.Envelope
}

// Ingestor manages the document corpus.
type Ingestor interface {
	Add(ctx context.Context, filename string, sourceType domdoc.SourceType, text string) (string, error)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (ingestuc.Stats, error)
}

// Searcher exposes the relevance index directly.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]domsearch.Result, error)
	Context(ctx context.Context, query string) (string, error)
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP API over the ingest, search and agent services.
type Server struct {
	agent    Agent
	ingestor Ingestor
	searcher Searcher
	store    Pinger
	topK     int
	logger   *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(agent Agent, ingestor Ingestor, searcher Searcher, store Pinger, topK int, logger *zap.Logger) *Server {
	return &Server{
		agent:    agent,
		ingestor: ingestor,
		searcher: searcher,
		store:    store,
		topK:     topK,
		logger:   logger,
	}
}

// Routes mounts all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/documents", s.addDocument)
	r.Delete("/documents", s.clearDocuments)
	r.Get("/stats", s.getStats)
	r.Get("/search", s.search)
	r.Get("/context", s.getContext)
	r.Post("/query", s.processQuery)
	r.Get("/health", s.getHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type addDocumentRequest struct {
	Filename   string `json:"filename"`
	SourceType string `json:"source_type"`
	Text       string `json:"text"`
}

type addDocumentResponse struct {
	Message string `json:"message"`
}

func (s *Server) addDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "filename is required")
		return
	}

	msg, err := s.ingestor.Add(r.Context(), req.Filename, domdoc.ParseSourceType(req.SourceType), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, addDocumentResponse{Message: msg})
}

func (s *Server) clearDocuments(w http.ResponseWriter, r *http.Request) {
	if err := s.ingestor.Clear(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Database cleared successfully"})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ingestor.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type searchResponse struct {
	Results []domsearch.Result `json:"results"`
	Total   int                `json:"total"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, domain.ErrEmptyQuery.Error())
		return
	}

	topK := s.topK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "top_k must be a positive integer")
			return
		}
		topK = n
	}

	results, err := s.searcher.Search(r.Context(), query, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if results == nil {
		results = []domsearch.Result{}
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: results, Total: len(results)})
}

func (s *Server) getContext(w http.ResponseWriter, r *http.Request) {
	block, err := s.searcher.Context(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"context": block})
}

type queryRequest struct {
	Query       string         `json:"query"`
	ContextData map[string]any `json:"context_data"`
}

func (s *Server) processQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query is required")
		return
	}

	envelope := s.agent.ProcessQuery(r.Context(), req.Query, req.ContextData)
	writeJSON(w, http.StatusOK, envelope)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:  "unhealthy",
			Version: version.Version,
			Commit:  version.Commit,
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.Version,
		Commit:  version.Commit,
	})
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, codeBadRequest, domain.ErrEmptyQuery.Error())
	case errors.Is(err, domain.ErrEmptyDocument):
		writeError(w, http.StatusBadRequest, codeBadRequest, domain.ErrEmptyDocument.Error())
	case errors.Is(err, domain.ErrCompletionProviderError):
		writeError(w, http.StatusBadGateway, codeUpstreamError, domain.ErrCompletionProviderError.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
