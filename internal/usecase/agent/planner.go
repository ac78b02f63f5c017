package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-cloud/finsight/internal/domain"
	"github.com/finsight-cloud/finsight/internal/domain/analysis"
	"github.com/finsight-cloud/finsight/internal/logger"
)

// DefaultPlanningTimeout bounds a single planning completion call.
const DefaultPlanningTimeout = 10 * time.Second

const (
	planningTemperature = 0.1
	planningMaxTokens   = 500
)

const planningPromptTemplate = `Analyze this financial query and create a step-by-step analysis plan.

Query: %s

Available tools:
- search: Search through uploaded documents
- calculate: Perform financial calculations
- analyze_trends: Analyze trends in data
- risk_assessment: Assess financial risks
- compare: Compare different entities/periods
- summarize: Summarize findings

Available context data: %s

Create a JSON plan with steps like:
[
    {"step": 1, "tool": "search", "description": "Search for relevant financial data", "query": "specific search terms"},
    {"step": 2, "tool": "calculate", "description": "Calculate key metrics", "inputs": ["data_needed"]},
    ...
]

Focus on providing precise, data-driven analysis. Return only the JSON array.`

// Keyword families that add steps to the fallback plan.
var (
	calcKeywords  = []string{"calculate", "ratio", "pe", "pb", "roe", "roa", "metric", "performance"}
	trendKeywords = []string{"trend", "growth", "change", "over time"}
	riskKeywords  = []string{"risk", "volatility", "uncertainty"}
)

// Planner turns a query into an ordered tool plan, asking the language model
// first and falling back to keyword heuristics when it fails.
type Planner struct {
	completer domain.Completer
	timeout   time.Duration
}

// NewPlanner creates a planner. A nil completer always plans heuristically.
func NewPlanner(completer domain.Completer, timeout time.Duration) *Planner {
	if timeout <= 0 {
		timeout = DefaultPlanningTimeout
	}
	return &Planner{completer: completer, timeout: timeout}
}

// Plan builds the analysis plan for query. Never fails: any planning error
// degrades to the fallback plan.
func (p *Planner) Plan(ctx context.Context, query string, contextData map[string]any) analysis.Plan {
	log := logger.FromContext(ctx)

	if p.completer == nil {
		return FallbackPlan(query)
	}

	raw, err := p.completer.Complete(ctx, domain.CompletionRequest{
		Prompt:      fmt.Sprintf(planningPromptTemplate, query, contextKeys(contextData)),
		Temperature: planningTemperature,
		MaxTokens:   planningMaxTokens,
		Timeout:     p.timeout,
	})
	if err != nil {
		log.Warn("planning completion failed, using fallback plan", zap.Error(err))
		return FallbackPlan(query)
	}

	plan, err := parsePlan(raw)
	if err != nil {
		log.Warn("planning response unparseable, using fallback plan", zap.Error(err))
		return FallbackPlan(query)
	}

	log.Debug("analysis plan created", zap.Strings("tools", plan.Tools()))
	return plan
}

// contextKeys renders the available context data keys for the prompt.
func contextKeys(contextData map[string]any) string {
	if len(contextData) == 0 {
		return "None"
	}
	keys := make([]string, 0, len(contextData))
	for k := range contextData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "[" + strings.Join(keys, ", ") + "]"
}

// parsePlan extracts the first JSON array from a model response. Models wrap
// their output in prose more often than not, so everything outside the
// outermost brackets is discarded.
func parsePlan(raw string) (analysis.Plan, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response: %w", domain.ErrMalformedPlan)
	}

	var plan analysis.Plan
	if err := json.Unmarshal([]byte(raw[start:end+1]), &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w: %w", domain.ErrMalformedPlan, err)
	}
	if len(plan) == 0 {
		return nil, fmt.Errorf("empty plan: %w", domain.ErrMalformedPlan)
	}

	plan.Renumber()
	return plan, nil
}

// FallbackPlan builds a keyword-driven plan: always search then summarize,
// with calculation, trend and risk steps inserted when the query asks for
// them.
func FallbackPlan(query string) analysis.Plan {
	plan := analysis.Plan{
		{Number: 1, Tool: ToolSearch, Description: "Search for relevant information", Query: query},
		{Number: 2, Tool: ToolSummarize, Description: "Summarize findings", Inputs: []string{"search_results"}},
	}

	lower := strings.ToLower(query)

	if containsAny(lower, calcKeywords) {
		plan = insertStep(plan, 1, analysis.Step{
			Tool: ToolCalculate, Description: "Perform calculations", Inputs: []string{"search_results"},
		})
	}
	if containsAny(lower, trendKeywords) {
		plan = insertStep(plan, len(plan)-1, analysis.Step{
			Tool: ToolAnalyzeTrends, Description: "Analyze trends", Inputs: []string{"search_results"},
		})
	}
	if containsAny(lower, riskKeywords) {
		plan = insertStep(plan, len(plan)-1, analysis.Step{
			Tool: ToolRiskAssessment, Description: "Assess risks", Inputs: []string{"search_results"},
		})
	}

	plan.Renumber()
	return plan
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func insertStep(plan analysis.Plan, at int, step analysis.Step) analysis.Plan {
	plan = append(plan, analysis.Step{})
	copy(plan[at+1:], plan[at:])
	plan[at] = step
	return plan
}
