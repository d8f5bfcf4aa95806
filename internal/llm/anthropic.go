package llm

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/consult-cli/pkg/anthropic"
)

const (
	defaultAnthropicMaxTokens = 8192
	jsonOnlyInstruction       = "Respond with a single valid JSON document and nothing else: no prose, no code fences."
)

// Anthropic implements Completer on top of the Messages API.
type Anthropic struct {
	client anthropic.Client
}

// NewAnthropic wraps an Anthropic client.
func NewAnthropic(client anthropic.Client) *Anthropic {
	return &Anthropic{client: client}
}

// Name implements Completer.
func (a *Anthropic) Name() string { return ProviderAnthropic }

// Complete implements Completer. JSON mode is an extra system instruction
// since the Messages API has no response-format switch.
func (a *Anthropic) Complete(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	temp := req.Temperature

	system := []anthropic.SystemBlock{{Text: req.System}}
	if req.JSON {
		system = append(system, anthropic.SystemBlock{Text: jsonOnlyInstruction})
	}

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    []anthropic.Message{{Role: "user", Content: req.User}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, err
	}

	text := resp.Text()
	if text == "" {
		return nil, eris.Errorf("anthropic: empty completion (stop reason %q)", resp.StopReason)
	}
	resp.Usage.LogCost(resp.Model)

	return &Response{
		Text:         text,
		Model:        resp.Model,
		FinishReason: resp.StopReason,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
