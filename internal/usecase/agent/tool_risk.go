package agent

import (
	"context"
	"sort"
	"strings"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
)

// Volatility thresholds for per-metric risk ratings.
const (
	highRiskVolatility   = 0.3
	mediumRiskVolatility = 0.1
)

// riskTool rates financial risk: a fixed baseline per risk category plus a
// volatility-derived rating for every metric with enough observations.
type riskTool struct{}

var _ Tool = (*riskTool)(nil)

func (t *riskTool) Invoke(_ context.Context, ec ExecutionContext) (analysis.StepResult, error) {
	ratings := map[string]string{
		"market_risk":      "Medium",
		"credit_risk":      "Low",
		"liquidity_risk":   "Low",
		"operational_risk": "Medium",
	}

	for metric, values := range extractSeries(ec.Accumulated) {
		if len(values) < 2 {
			continue
		}
		v := volatility(values)
		switch {
		case v > highRiskVolatility:
			ratings[metric+"_risk"] = "High"
		case v > mediumRiskVolatility:
			ratings[metric+"_risk"] = "Medium"
		default:
			ratings[metric+"_risk"] = "Low"
		}
	}

	return analysis.StepResult{
		RiskRatings:     ratings,
		Recommendations: riskRecommendations(ratings),
	}, nil
}

func riskRecommendations(ratings map[string]string) []string {
	var highRisk []string
	for area, rating := range ratings {
		if rating == "High" {
			highRisk = append(highRisk, area)
		}
	}
	sort.Strings(highRisk)

	var recs []string
	if len(highRisk) > 0 {
		recs = append(recs, "Monitor high-risk areas: "+strings.Join(highRisk, ", "))
	}
	recs = append(recs,
		"Diversify portfolio to reduce concentration risk",
		"Regular monitoring and rebalancing recommended",
	)
	return recs
}
