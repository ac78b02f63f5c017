package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
)

// compareTool ranks entities against each other on every metric observed at
// least twice. An entity is the document a value came from.
type compareTool struct{}

var _ Tool = (*compareTool)(nil)

func (t *compareTool) Invoke(_ context.Context, ec ExecutionContext) (analysis.StepResult, error) {
	comparisons := make(map[string]analysis.Comparison)

	for metric, values := range extractComparisons(ec.Accumulated) {
		if len(values) < 2 {
			continue
		}
		comparisons[metric] = compareValues(values)
	}

	return analysis.StepResult{
		Comparisons: comparisons,
		Summary:     comparisonSummary(comparisons),
	}, nil
}

// compareValues ranks one metric's observations. Ties go to the first
// observation.
func compareValues(values []analysis.ComparisonValue) analysis.Comparison {
	best, worst := values[0], values[0]
	sum := 0.0
	for _, v := range values {
		if v.Value > best.Value {
			best = v
		}
		if v.Value < worst.Value {
			worst = v
		}
		sum += v.Value
	}
	return analysis.Comparison{
		Values:         values,
		BestPerformer:  best.Entity,
		WorstPerformer: worst.Entity,
		Average:        sum / float64(len(values)),
		Spread:         best.Value - worst.Value,
	}
}

func comparisonSummary(comparisons map[string]analysis.Comparison) string {
	if len(comparisons) == 0 {
		return "No comparison data available."
	}

	metrics := make([]string, 0, len(comparisons))
	for m := range comparisons {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	parts := make([]string, 0, len(metrics))
	for _, m := range metrics {
		c := comparisons[m]
		parts = append(parts, fmt.Sprintf("%s: %s outperforms %s", m, c.BestPerformer, c.WorstPerformer))
	}
	return strings.Join(parts, ". ")
}
