package agent

import (
	"context"
	"sort"
	"strings"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
)

// trendsTool reads metric series accumulated by earlier steps and reports
// direction, volatility and pattern per metric.
type trendsTool struct{}

var _ Tool = (*trendsTool)(nil)

func (t *trendsTool) Invoke(_ context.Context, ec ExecutionContext) (analysis.StepResult, error) {
	trends := make(map[string]analysis.TrendAnalysis)

	for metric, values := range extractSeries(ec.Accumulated) {
		if len(values) < 2 {
			continue
		}
		trends[metric] = analysis.TrendAnalysis{
			Direction:    trendDirection(values),
			Volatility:   volatility(values),
			RecentChange: recentChange(values),
			Pattern:      identifyPattern(values),
		}
	}

	return analysis.StepResult{
		Trends:  trends,
		Summary: trendSummary(trends),
	}, nil
}

func trendDirection(values []float64) string {
	if len(values) < 2 {
		return "insufficient_data"
	}
	switch {
	case values[len(values)-1] > values[0]:
		return "upward"
	case values[len(values)-1] < values[0]:
		return "downward"
	default:
		return "stable"
	}
}

func recentChange(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	prev := values[len(values)-2]
	if prev == 0 {
		return 0
	}
	return (values[len(values)-1] - prev) / prev * 100
}

func identifyPattern(values []float64) string {
	if len(values) < 3 {
		return "insufficient_data"
	}
	rising, falling := true, true
	for i := 0; i+1 < len(values); i++ {
		if values[i] > values[i+1] {
			rising = false
		}
		if values[i] < values[i+1] {
			falling = false
		}
	}
	switch {
	case rising:
		return "consistent_growth"
	case falling:
		return "consistent_decline"
	default:
		return "volatile"
	}
}

func trendSummary(trends map[string]analysis.TrendAnalysis) string {
	if len(trends) == 0 {
		return "No trend data available."
	}

	var upward, downward []string
	for metric, ta := range trends {
		switch ta.Direction {
		case "upward":
			upward = append(upward, metric)
		case "downward":
			downward = append(downward, metric)
		}
	}
	sort.Strings(upward)
	sort.Strings(downward)

	var parts []string
	if len(upward) > 0 {
		parts = append(parts, "Upward trends in: "+strings.Join(upward, ", "))
	}
	if len(downward) > 0 {
		parts = append(parts, "Downward trends in: "+strings.Join(downward, ", "))
	}
	if len(parts) == 0 {
		return "Mixed trends observed."
	}
	return strings.Join(parts, ". ")
}
