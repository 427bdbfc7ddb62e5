package llm

import (
	"context"
	"errors"

	"ai-content-planner/internal/shared"
)

var (
	// ErrMissingCredential is returned before any network call when the
	// provider API key is not configured.
	ErrMissingCredential = errors.New("provider API key not configured")

	// ErrEmptyResponse is returned when the provider answered without content.
	ErrEmptyResponse = errors.New("empty response from AI")
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// StructuredRequest is a prompt plus the output schema the provider must honor.
type StructuredRequest struct {
	Prompt      string
	SchemaName  string
	Schema      *Schema
	Temperature float32 // sent as is; 0 means deterministic sampling
}

// StructuredGenerator produces JSON text that conforms to the request schema.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, req StructuredRequest) (ContentResponse, error)
	Provider() string
}

// KeySource returns the current API key. It is consulted on every call so a
// credential rotated in the environment is picked up without a restart.
type KeySource func() string
