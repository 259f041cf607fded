// Package llm sends single-turn prompts to a hosted language model and
// returns its JSON answer. Each vendor SDK sits behind Provider; retries,
// deadlines and request recording are layered on with Middleware.
package llm

import (
	"context"
	"encoding/json"
)

// Provider completes one prompt.
type Provider interface {
	Complete(ctx context.Context, p Prompt) (*Completion, error)
	// Model is the model id requests are sent to.
	Model() string
}

// Prompt is a system instruction plus one user turn.
type Prompt struct {
	// Purpose labels the request in the event log, e.g. "roadmap-steps".
	Purpose string

	System string
	User   string

	// Format asks for JSON of a given shape using the vendor's native
	// structured output. Nil means free text.
	Format *Format

	MaxTokens   int
	Temperature float64
}

// Format names a JSON Schema the answer should follow.
type Format struct {
	Name   string
	Schema map[string]any
}

// Completion is a model answer.
type Completion struct {
	JSON  json.RawMessage
	Model string

	InputTokens  int
	OutputTokens int

	// Truncated is set when generation stopped at MaxTokens. JSON is then
	// likely cut short.
	Truncated bool
}
