package agent

import "github.com/finsight-cloud/finsight/internal/domain/analysis"

// ExecutionContext carries everything a tool may need for one step: the
// original query, the step being executed, results accumulated from earlier
// steps and any caller-supplied context data.
type ExecutionContext struct {
	Query       string
	Step        analysis.Step
	Accumulated map[string]analysis.StepResult
	ContextData map[string]any
}

// SearchQuery returns the step's own query when the plan set one, otherwise
// the user's original query.
func (ec ExecutionContext) SearchQuery() string {
	if ec.Step.Query != "" {
		return ec.Step.Query
	}
	return ec.Query
}
