package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
	"github.com/finsight-cloud/finsight/internal/logger"
)

// Executor runs a plan step by step against a tool registry, checking the
// deadline before every step and accumulating results for later steps.
type Executor struct {
	tools Registry
}

// NewExecutor creates an executor over the given tool registry.
func NewExecutor(tools Registry) *Executor {
	return &Executor{tools: tools}
}

// Execute runs plan until completion or deadline. A step failure is recorded
// and execution continues; hitting the deadline records a timeout marker and
// stops.
func (e *Executor) Execute(ctx context.Context, plan analysis.Plan, query string, contextData map[string]any, deadline time.Time) analysis.ExecutionResult {
	log := logger.FromContext(ctx)

	result := analysis.ExecutionResult{Steps: make(map[string]analysis.Record)}
	accumulated := make(map[string]analysis.StepResult)

	for _, step := range plan {
		if !time.Now().Before(deadline) {
			result.Steps[analysis.TimeoutKey(step.Number)] = analysis.Record{
				Tool:        "timeout",
				Description: "Processing stopped due to timeout",
				Message:     "Timeout reached during execution",
				Success:     false,
			}
			log.Warn("execution deadline reached", zap.Int("step", step.Number))
			break
		}

		tool, ok := e.tools[step.Tool]
		if !ok {
			result.Steps[analysis.StepKey(step.Number)] = analysis.Record{
				Tool:        step.Tool,
				Description: step.Description,
				Message:     fmt.Sprintf("Tool %q not available", step.Tool),
				Success:     false,
			}
			continue
		}

		stepResult, err := e.invoke(ctx, tool, ExecutionContext{
			Query:       query,
			Step:        step,
			Accumulated: accumulated,
			ContextData: contextData,
		})
		if err != nil {
			result.Steps[analysis.StepKey(step.Number)] = analysis.Record{
				Tool:        step.Tool,
				Description: step.Description,
				Message:     "Error: " + err.Error(),
				Success:     false,
			}
			log.Warn("step failed",
				zap.Int("step", step.Number),
				zap.String("tool", step.Tool),
				zap.Error(err),
			)
			continue
		}

		result.Steps[analysis.StepKey(step.Number)] = analysis.Record{
			Tool:        step.Tool,
			Description: step.Description,
			Result:      stepResult,
			Success:     true,
		}
		accumulated[analysis.AccumulatedKey(step.Number)] = stepResult
	}

	return result
}

// invoke shields the loop from a misbehaving tool.
func (e *Executor) invoke(ctx context.Context, tool Tool, ec ExecutionContext) (result analysis.StepResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panic: %v", r)
		}
	}()
	return tool.Invoke(ctx, ec)
}
