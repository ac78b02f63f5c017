package agent

import "github.com/finsight-cloud/finsight/internal/domain"

// Tool names as they appear in plans.
const (
	ToolSearch         = "search"
	ToolCalculate      = "calculate"
	ToolAnalyzeTrends  = "analyze_trends"
	ToolRiskAssessment = "risk_assessment"
	ToolCompare        = "compare"
	ToolSummarize      = "summarize"
)

// Registry maps plan tool names to implementations.
type Registry map[string]Tool

// NewRegistry wires the full tool set over the given search index and
// completer. A nil completer leaves summarize on its deterministic fallback.
func NewRegistry(index Index, completer domain.Completer, searchTopK int) Registry {
	return Registry{
		ToolSearch:         &searchTool{index: index, topK: searchTopK},
		ToolCalculate:      &calculateTool{},
		ToolAnalyzeTrends:  &trendsTool{},
		ToolRiskAssessment: &riskTool{},
		ToolCompare:        &compareTool{},
		ToolSummarize:      &summarizeTool{completer: completer},
	}
}
