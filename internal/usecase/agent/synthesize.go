package agent

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
)

const insufficientAnswer = "I was unable to find sufficient information to answer your query. " +
	"Please try rephrasing your question or uploading relevant documents."

// synthesizeAnswer builds the final answer. A successful summarize step wins
// outright; otherwise the answer is assembled from whatever the successful
// steps produced.
func synthesizeAnswer(result analysis.ExecutionResult) string {
	keys := sortedRecordKeys(result.Steps)

	for _, key := range keys {
		rec := result.Steps[key]
		if rec.Tool == ToolSummarize && rec.Success && rec.Result.Summary != "" {
			return rec.Result.Summary
		}
	}

	var parts []string
	for _, key := range keys {
		rec := result.Steps[key]
		if !rec.Success {
			continue
		}
		switch rec.Tool {
		case ToolSearch:
			if rec.Result.Summary != "" {
				parts = append(parts, "**Document Analysis**: "+rec.Result.Summary)
			}
		case ToolCalculate:
			if s := formatFloatPairs(rec.Result.Calculations); s != "" {
				parts = append(parts, "**Calculations**: "+s)
			}
		case ToolAnalyzeTrends:
			if rec.Result.Summary != "" {
				parts = append(parts, "**Trend Analysis**: "+rec.Result.Summary)
			}
		case ToolRiskAssessment:
			if s := formatStringPairs(rec.Result.RiskRatings); s != "" {
				parts = append(parts, "**Risk Assessment**: "+s)
			}
		}
	}

	if len(parts) == 0 {
		return insufficientAnswer
	}
	return strings.Join(parts, "\n\n")
}

// sortedRecordKeys orders execution record keys numerically where possible,
// so synthesis walks steps in plan order.
func sortedRecordKeys(steps map[string]analysis.Record) []string {
	keys := make([]string, 0, len(steps))
	for k := range steps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, ierr := strconv.Atoi(keys[i])
		nj, jerr := strconv.Atoi(keys[j])
		if ierr == nil && jerr == nil {
			return ni < nj
		}
		if (ierr == nil) != (jerr == nil) {
			return ierr == nil
		}
		return keys[i] < keys[j]
	})
	return keys
}

func formatFloatPairs(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %g", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func formatStringPairs(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+m[k])
	}
	return strings.Join(parts, ", ")
}
