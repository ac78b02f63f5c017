package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/finsight-cloud/finsight/internal/domain"
	"github.com/finsight-cloud/finsight/internal/domain/analysis"
	"github.com/finsight-cloud/finsight/internal/logger"
)

const (
	summaryTemperature = 0.2
	summaryMaxTokens   = 1500
)

const summaryPromptTemplate = `Based on the financial analysis conducted, provide a comprehensive summary for this query:

Query: %s

Key Findings:
%s

Sources: %s

Provide a clear, structured summary that directly answers the user's question with specific data points and insights.`

// summarizeTool condenses the accumulated findings into a final summary,
// through the language model when one is configured and deterministically
// otherwise.
type summarizeTool struct {
	completer domain.Completer
}

var _ Tool = (*summarizeTool)(nil)

func (t *summarizeTool) Invoke(ctx context.Context, ec ExecutionContext) (analysis.StepResult, error) {
	var findings []string
	var sources []string

	for _, key := range sortedStepKeys(ec.Accumulated) {
		step := ec.Accumulated[key]
		if step.Summary != "" {
			findings = append(findings, step.Summary)
		}
		for _, doc := range step.Documents {
			sources = append(sources, doc.Source)
		}
		if len(step.Calculations) > 0 {
			keys := make([]string, 0, len(step.Calculations))
			for k := range step.Calculations {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			findings = append(findings, "Key calculations: "+strings.Join(keys, ", "))
		}
	}

	sources = dedup(sources)
	summary := t.completeSummary(ctx, ec.Query, findings, sources)

	return analysis.StepResult{
		Summary:     summary,
		KeyFindings: findings,
		SourcesUsed: sources,
	}, nil
}

func (t *summarizeTool) completeSummary(ctx context.Context, query string, findings, sources []string) string {
	fallback := "Summary of findings: " + strings.Join(findings, ". ")
	if t.completer == nil {
		return fallback
	}

	bullets := make([]string, 0, len(findings))
	for _, f := range findings {
		bullets = append(bullets, "- "+f)
	}

	summary, err := t.completer.Complete(ctx, domain.CompletionRequest{
		Prompt: fmt.Sprintf(summaryPromptTemplate,
			query, strings.Join(bullets, "\n"), strings.Join(sources, ", ")),
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("summary completion failed, using deterministic summary", zap.Error(err))
		return fallback
	}
	return strings.TrimSpace(summary)
}

// dedup keeps the first occurrence of each value, preserving order.
func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
