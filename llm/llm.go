// Package llm abstracts the text-generation backend. The agent only ever
// sees the Connector interface; implementations may be a real
// network-backed model or a deterministic stub.
package llm

import (
	"context"
	"fmt"
)

// Connector generates text from a system instruction and a user prompt.
// Calls are synchronous round trips; callers bound them with a context
// deadline. Failures are returned as errors and must be handled by the
// caller, never left to propagate to the end user.
type Connector interface {
	Generate(ctx context.Context, system, userPrompt string) (string, error)
}

// Mock is a deterministic connector for offline demos and tests.
type Mock struct {
	// Model is reported in responses so transcripts show which backend ran.
	Model string
}

// NewMock returns a mock connector.
func NewMock() *Mock {
	return &Mock{Model: "mock-model"}
}

// Generate returns a canned response that echoes the request, so fused
// prompts can be inspected end to end without network access.
func (m *Mock) Generate(_ context.Context, _ string, userPrompt string) (string, error) {
	return fmt.Sprintf(
		"[%s] I received your request and have fused my persona instructions, "+
			"salient memory, recent dialogue, and domain knowledge to answer it. "+
			"Prompt length: %d characters.",
		m.Model, len(userPrompt)), nil
}
