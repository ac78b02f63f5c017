package domain

import "errors"

var (
	// ErrEmptyQuery signals a query with no content.
	ErrEmptyQuery = errors.New("query is required")
	// ErrEmptyDocument signals a document with no extracted text.
	ErrEmptyDocument = errors.New("document text is required")
	// ErrUnknownTool signals a plan step referencing a tool absent from the registry.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrMalformedPlan signals a planning response with no parseable JSON array.
	ErrMalformedPlan = errors.New("plan response not parseable")
	// ErrCompletionProviderError signals a completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)
