package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finsight-cloud/finsight/internal/domain/analysis"
)

func farDeadline() time.Time { return time.Now().Add(time.Hour) }

func TestExecutor_RunsPlanAndAccumulates(t *testing.T) {
	first := &stubTool{result: analysis.StepResult{Summary: "found things"}}
	second := &stubTool{result: analysis.StepResult{Summary: "summed up"}}
	e := NewExecutor(Registry{ToolSearch: first, ToolSummarize: second})

	plan := analysis.Plan{
		{Number: 1, Tool: ToolSearch, Description: "search"},
		{Number: 2, Tool: ToolSummarize, Description: "summarize"},
	}
	result := e.Execute(context.Background(), plan, "query", nil, farDeadline())

	if len(result.Steps) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Steps))
	}
	for _, key := range []string{"1", "2"} {
		if !result.Steps[key].Success {
			t.Errorf("step %s not successful: %+v", key, result.Steps[key])
		}
	}

	// The second tool must see the first tool's result.
	if len(second.calls) != 1 {
		t.Fatalf("second tool called %d times", len(second.calls))
	}
	acc := second.calls[0].Accumulated
	if acc["step_1"].Summary != "found things" {
		t.Errorf("accumulated data missing step_1: %+v", acc)
	}
}

func TestExecutor_UnknownToolRecordedAndContinues(t *testing.T) {
	summarize := &stubTool{result: analysis.StepResult{Summary: "done"}}
	e := NewExecutor(Registry{ToolSummarize: summarize})

	plan := analysis.Plan{
		{Number: 1, Tool: "clairvoyance", Description: "gaze"},
		{Number: 2, Tool: ToolSummarize, Description: "summarize"},
	}
	result := e.Execute(context.Background(), plan, "query", nil, farDeadline())

	rec := result.Steps["1"]
	if rec.Success {
		t.Error("unknown tool recorded as success")
	}
	if !strings.Contains(rec.Message, `Tool "clairvoyance" not available`) {
		t.Errorf("unexpected message: %q", rec.Message)
	}
	if !result.Steps["2"].Success {
		t.Error("execution did not continue past unknown tool")
	}
}

func TestExecutor_ToolErrorRecordedAndContinues(t *testing.T) {
	failing := &stubTool{err: errors.New("index unavailable")}
	summarize := &stubTool{result: analysis.StepResult{Summary: "done"}}
	e := NewExecutor(Registry{ToolSearch: failing, ToolSummarize: summarize})

	plan := analysis.Plan{
		{Number: 1, Tool: ToolSearch, Description: "search"},
		{Number: 2, Tool: ToolSummarize, Description: "summarize"},
	}
	result := e.Execute(context.Background(), plan, "query", nil, farDeadline())

	rec := result.Steps["1"]
	if rec.Success {
		t.Error("failed step recorded as success")
	}
	if !strings.HasPrefix(rec.Message, "Error: ") {
		t.Errorf("unexpected message: %q", rec.Message)
	}

	// Failed steps contribute nothing to accumulated data.
	if _, ok := summarize.calls[0].Accumulated["step_1"]; ok {
		t.Error("failed step leaked into accumulated data")
	}
}

func TestExecutor_PanicRecovered(t *testing.T) {
	e := NewExecutor(Registry{ToolSearch: panicTool{}})

	plan := analysis.Plan{{Number: 1, Tool: ToolSearch, Description: "search"}}
	result := e.Execute(context.Background(), plan, "query", nil, farDeadline())

	rec := result.Steps["1"]
	if rec.Success {
		t.Error("panicking tool recorded as success")
	}
	if !strings.Contains(rec.Message, "tool exploded") {
		t.Errorf("panic detail lost: %q", rec.Message)
	}
}

func TestExecutor_DeadlineStopsExecution(t *testing.T) {
	search := &stubTool{result: analysis.StepResult{Summary: "found"}}
	e := NewExecutor(Registry{ToolSearch: search})

	plan := analysis.Plan{
		{Number: 1, Tool: ToolSearch, Description: "search"},
		{Number: 2, Tool: ToolSearch, Description: "search again"},
	}
	result := e.Execute(context.Background(), plan, "query", nil, time.Now().Add(-time.Second))

	if len(result.Steps) != 1 {
		t.Fatalf("expected single timeout record, got %d", len(result.Steps))
	}
	rec, ok := result.Steps["timeout_at_step_1"]
	if !ok {
		t.Fatalf("timeout marker missing: %v", result.Steps)
	}
	if rec.Tool != "timeout" || rec.Success {
		t.Errorf("unexpected timeout record: %+v", rec)
	}
	if rec.Message != "Timeout reached during execution" {
		t.Errorf("unexpected timeout message: %q", rec.Message)
	}
	if len(search.calls) != 0 {
		t.Error("tool ran after deadline")
	}
}

func TestExecutor_StepQueryPassedToTool(t *testing.T) {
	search := &stubTool{result: analysis.StepResult{}}
	e := NewExecutor(Registry{ToolSearch: search})

	plan := analysis.Plan{{Number: 1, Tool: ToolSearch, Description: "search", Query: "specific terms"}}
	e.Execute(context.Background(), plan, "original question", nil, farDeadline())

	if got := search.calls[0].SearchQuery(); got != "specific terms" {
		t.Errorf("SearchQuery() = %q, want step query", got)
	}
}
