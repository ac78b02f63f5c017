package domain

import (
	"context"
	"time"
)

// CompletionRequest is a single prompt sent to the external completion model.
type CompletionRequest struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
	// Timeout bounds this one call independently of the caller's deadline.
	// Zero means the caller's context governs.
	Timeout time.Duration
}

// Completer generates text from a prompt. Implementations call an external
// model service and may fail or time out; every call site must treat the call
// as fallible and degrade instead of propagating a fatal error.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
