// Package llm defines the completion interface used for extraction and its
// OpenAI and Anthropic implementations.
package llm

import "context"

// Provider names accepted by configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Request is a single system+user completion request.
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
	JSON        bool // ask the provider for a JSON-only reply
}

// Response is the text of a completion plus usage accounting.
type Response struct {
	Text         string
	Model        string
	FinishReason string
	InputTokens  int64
	OutputTokens int64
}

// Completer sends one completion request. Implementations make exactly one
// attempt.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Name() string
}
