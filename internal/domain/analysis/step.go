package analysis

import (
	"fmt"
	"strconv"
)

// DocumentHit is one enriched retrieval hit inside a search StepResult.
type DocumentHit struct {
	Content     string             `json:"content"`
	Source      string             `json:"source"`
	Relevance   float64            `json:"relevance"`
	ContentType string             `json:"type"`
	KeyMetrics  map[string]float64 `json:"key_metrics,omitempty"`
}

// TrendAnalysis describes one metric's time-series behavior.
type TrendAnalysis struct {
	Direction    string  `json:"direction"`
	Volatility   float64 `json:"volatility"`
	RecentChange float64 `json:"recent_change"`
	Pattern      string  `json:"pattern"`
}

// ComparisonValue is one entity's observation of a metric.
type ComparisonValue struct {
	Entity string  `json:"entity"`
	Value  float64 `json:"value"`
}

// Comparison reports best and worst performers for one metric.
type Comparison struct {
	Values         []ComparisonValue `json:"values"`
	BestPerformer  string            `json:"best_performer"`
	WorstPerformer string            `json:"worst_performer"`
	Average        float64           `json:"average"`
	Spread         float64           `json:"spread"`
}

// StepResult is the typed output of one tool invocation. Tool failure is a
// representable value (Err non-empty) rather than a control-flow exception;
// each tool populates only the fields it owns.
type StepResult struct {
	Err             string                   `json:"error,omitempty"`
	Documents       []DocumentHit            `json:"documents,omitempty"`
	Summary         string                   `json:"summary,omitempty"`
	TotalFound      int                      `json:"total_found,omitempty"`
	Calculations    map[string]float64       `json:"calculations,omitempty"`
	DataUsed        []string                 `json:"data_used,omitempty"`
	Insights        []string                 `json:"insights,omitempty"`
	Trends          map[string]TrendAnalysis `json:"trends,omitempty"`
	RiskRatings     map[string]string        `json:"risk_assessment,omitempty"`
	Recommendations []string                 `json:"recommendations,omitempty"`
	Comparisons     map[string]Comparison    `json:"comparisons,omitempty"`
	KeyFindings     []string                 `json:"key_findings,omitempty"`
	SourcesUsed     []string                 `json:"sources_used,omitempty"`
}

// Record is one attempted step in an execution. For a successful dispatch
// Result holds the tool output; for a failed dispatch (unknown tool, tool
// error, timeout) Message explains why and Success is false.
type Record struct {
	Tool        string     `json:"tool"`
	Description string     `json:"description"`
	Result      StepResult `json:"result"`
	Message     string     `json:"message,omitempty"`
	Success     bool       `json:"success"`
}

// ExecutionResult maps step keys to records. Keys are the decimal step number
// ("3") or a synthetic timeout marker ("timeout_at_step_3").
type ExecutionResult struct {
	Steps map[string]Record `json:"steps"`
}

// StepKey renders a step number as its record key.
func StepKey(n int) string { return strconv.Itoa(n) }

// TimeoutKey renders the synthetic key recorded when the deadline cuts off
// the plan at step n.
func TimeoutKey(n int) string { return fmt.Sprintf("timeout_at_step_%d", n) }

// AccumulatedKey renders the accumulated-state key under which step n's
// result is injected into later steps.
func AccumulatedKey(n int) string { return fmt.Sprintf("step_%d", n) }
