// Package agent plans, executes and synthesizes multi-step financial
// analyses over the document corpus under a wall-clock budget.
package agent

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
	"github.com/finsight-cloud/finsight/internal/logger"
	"github.com/finsight-cloud/finsight/internal/metrics"
)

// DefaultMaxProcessingTime bounds one query end to end.
const DefaultMaxProcessingTime = 90 * time.Second

const timeoutApology = "I apologize, but your query is taking longer than expected to process. " +
	"Please try a simpler question or break down your request into smaller parts."

// Service is the query orchestrator: plan, execute, synthesize.
type Service struct {
	planner       *Planner
	executor      *Executor
	maxProcessing time.Duration
}

// New creates the agent service. maxProcessing <= 0 selects the default
// budget.
func New(planner *Planner, executor *Executor, maxProcessing time.Duration) *Service {
	if maxProcessing <= 0 {
		maxProcessing = DefaultMaxProcessingTime
	}
	return &Service{planner: planner, executor: executor, maxProcessing: maxProcessing}
}

// ProcessQuery answers one query. The envelope always comes back usable:
// timeouts, planning failures and even panics degrade to an explanatory
// answer rather than an error return.
func (s *Service) ProcessQuery(ctx context.Context, query string, contextData map[string]any) analysis.Envelope {
	start := time.Now()

	envelope := s.process(ctx, query, contextData, start)
	envelope.ProcessingTimeSeconds = roundSeconds(time.Since(start))

	outcome := "success"
	switch {
	case envelope.Timeout:
		outcome = "timeout"
	case !envelope.Success:
		outcome = "error"
	}
	metrics.QueriesTotal.WithLabelValues(outcome).Inc()
	metrics.QueryDuration.Observe(time.Since(start).Seconds())

	logger.FromContext(ctx).Info("query processed",
		zap.String("outcome", outcome),
		zap.Float64("confidence", envelope.Confidence),
		zap.Float64("seconds", envelope.ProcessingTimeSeconds),
	)

	return envelope
}

func (s *Service) process(ctx context.Context, query string, contextData map[string]any, start time.Time) (envelope analysis.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("query processing panicked", zap.Any("panic", r))
			envelope = analysis.Envelope{
				Success: false,
				Error:   fmt.Sprint(r),
				Answer:  fmt.Sprintf("I encountered an error while processing your query: %v", r),
			}
		}
	}()

	deadline := start.Add(s.maxProcessing)

	planCtx, cancel := context.WithDeadline(ctx, deadline)
	plan := s.planner.Plan(planCtx, query, contextData)
	cancel()

	if !time.Now().Before(deadline) {
		return timeoutEnvelope("Planning phase exceeded time limit")
	}

	result := s.executor.Execute(ctx, plan, query, contextData, deadline)

	if !time.Now().Before(deadline) {
		return timeoutEnvelope("Execution phase exceeded time limit")
	}

	return analysis.Envelope{
		Success:      true,
		Answer:       synthesizeAnswer(result),
		Plan:         plan,
		Intermediate: &result,
		Confidence:   confidence(result),
		Sources:      extractSources(result),
	}
}

func timeoutEnvelope(reason string) analysis.Envelope {
	return analysis.Envelope{
		Success: false,
		Timeout: true,
		Error:   "Processing timeout: " + reason,
		Answer:  timeoutApology,
	}
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
