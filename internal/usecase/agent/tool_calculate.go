package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
)

// Keyword families selecting which calculations to run.
var (
	ratioTerms  = []string{"ratio", "pe", "pb", "roe", "roa", "margin"}
	growthTerms = []string{"growth", "change", "increase", "decrease"}
	statTerms   = []string{"average", "mean", "median"}
	returnTerms = []string{"return", "performance", "yield"}
)

// calculateTool derives financial metrics from the numbers gathered by
// earlier search steps. Which families run depends on the query wording.
type calculateTool struct{}

var _ Tool = (*calculateTool)(nil)

func (t *calculateTool) Invoke(_ context.Context, ec ExecutionContext) (analysis.StepResult, error) {
	calculations := make(map[string]float64)
	series := extractSeries(ec.Accumulated)

	if series != nil {
		lower := strings.ToLower(ec.Query)

		if containsAny(lower, ratioTerms) {
			mergeCalcs(calculations, financialRatios(series))
		}
		if containsAny(lower, growthTerms) {
			mergeCalcs(calculations, growthMetrics(series))
		}
		if containsAny(lower, statTerms) {
			mergeCalcs(calculations, statisticalMetrics(series))
		}
		if containsAny(lower, returnTerms) {
			mergeCalcs(calculations, returnMetrics(series))
		}
	}

	dataUsed := make([]string, 0, len(series))
	for metric := range series {
		dataUsed = append(dataUsed, metric)
	}
	sort.Strings(dataUsed)

	return analysis.StepResult{
		Calculations: calculations,
		DataUsed:     dataUsed,
		Insights:     calculationInsights(calculations),
	}, nil
}

func mergeCalcs(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] = v
	}
}

func financialRatios(series map[string][]float64) map[string]float64 {
	ratios := make(map[string]float64)
	revenues, profits := series["revenue"], series["profit"]
	if len(revenues) > 0 && len(profits) > 0 {
		if avgRevenue := mean(revenues); avgRevenue != 0 {
			ratios["profit_margin"] = mean(profits) / avgRevenue * 100
		}
	}
	return ratios
}

func growthMetrics(series map[string][]float64) map[string]float64 {
	growth := make(map[string]float64)
	for metric, values := range series {
		if len(values) >= 2 && values[0] != 0 {
			growth[metric+"_growth"] = (values[len(values)-1] - values[0]) / values[0] * 100
		}
	}
	return growth
}

func statisticalMetrics(series map[string][]float64) map[string]float64 {
	stats := make(map[string]float64)
	for metric, values := range series {
		if len(values) == 0 {
			continue
		}
		stats[metric+"_mean"] = mean(values)
		stats[metric+"_median"] = median(values)
		if len(values) > 1 {
			stats[metric+"_std"] = stddev(values)
		}
	}
	return stats
}

func returnMetrics(series map[string][]float64) map[string]float64 {
	returns := make(map[string]float64)
	prices := series["price"]
	if len(prices) >= 2 && prices[0] != 0 {
		returns["total_return"] = (prices[len(prices)-1] - prices[0]) / prices[0] * 100
	}
	return returns
}

// calculationInsights turns notable calculation results into prose.
func calculationInsights(calculations map[string]float64) []string {
	metrics := make([]string, 0, len(calculations))
	for m := range calculations {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	var insights []string
	for _, metric := range metrics {
		value := calculations[metric]
		switch {
		case strings.Contains(metric, "growth") && value > 0:
			insights = append(insights, fmt.Sprintf("Positive growth detected in %s: %.2f%%",
				strings.TrimSuffix(metric, "_growth"), value))
		case strings.Contains(metric, "margin"):
			switch {
			case value > 20:
				insights = append(insights, fmt.Sprintf("Strong %s: %.2f%%", metric, value))
			case value > 10:
				insights = append(insights, fmt.Sprintf("Moderate %s: %.2f%%", metric, value))
			default:
				insights = append(insights, fmt.Sprintf("Low %s: %.2f%%", metric, value))
			}
		}
	}
	return insights
}
