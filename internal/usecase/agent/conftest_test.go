package agent

import (
	"context"

	"github.com/finsight-cloud/finsight/internal/domain"
	"github.com/finsight-cloud/finsight/internal/domain/analysis"
	domsearch "github.com/finsight-cloud/finsight/internal/domain/search"
)

type mockIndex struct {
	results []domsearch.Result
	err     error

	queries []string
}

func (m *mockIndex) Search(_ context.Context, query string, topK int) ([]domsearch.Result, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	if topK > 0 && len(m.results) > topK {
		return m.results[:topK], nil
	}
	return m.results, nil
}

type mockCompleter struct {
	response string
	err      error

	prompts []string
}

func (m *mockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	m.prompts = append(m.prompts, req.Prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type stubTool struct {
	result analysis.StepResult
	err    error

	calls []ExecutionContext
}

func (s *stubTool) Invoke(_ context.Context, ec ExecutionContext) (analysis.StepResult, error) {
	s.calls = append(s.calls, ec)
	if s.err != nil {
		return analysis.StepResult{}, s.err
	}
	return s.result, nil
}

type panicTool struct{}

func (panicTool) Invoke(context.Context, ExecutionContext) (analysis.StepResult, error) {
	panic("tool exploded")
}

func hit(filename string, relevance float64, content string) domsearch.Result {
	return domsearch.Result{
		Content:  content,
		Filename: filename,
		Source:   filename + " (chunk 1)",
		Score:    relevance,
	}
}
