// Package llm builds outbound completion requests and issues them to the
// external model API. Two providers satisfy the same Gateway interface: an
// OpenAI-compatible chat-completions client (default) and Gemini.
package llm

import (
	"context"
)

// Completion is the uniform result of one upstream call.
type Completion struct {
	Content string
	// PromptTokens is the model-reported prompt token count, 0 when the
	// provider did not report usage.
	PromptTokens int
}

// Gateway issues a single non-streaming completion request. Implementations
// fail fast with a ConfigurationError when no credential is configured, and
// return UpstreamError / UpstreamTimeoutError for runtime failures.
type Gateway interface {
	Complete(ctx context.Context, model ModelConfig, systemPrompt, userPrompt string) (Completion, error)
}
