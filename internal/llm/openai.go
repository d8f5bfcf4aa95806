package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// OpenAI implements Completer with the chat completions API.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI creates an OpenAI completer. baseURL may be empty. SDK retries are
// disabled.
func NewOpenAI(apiKey, baseURL string, opts ...option.RequestOption) *OpenAI {
	all := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)
	return &OpenAI{client: openai.NewClient(all...)}
}

// Name implements Completer.
func (o *OpenAI) Name() string { return ProviderOpenAI }

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(req.MaxTokens)
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "openai: chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("openai: completion returned no choices")
	}

	out := &Response{
		Text:         resp.Choices[0].Message.Content,
		Model:        resp.Model,
		FinishReason: resp.Choices[0].FinishReason,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	zap.L().Info("openai: token usage",
		zap.String("model", out.Model),
		zap.Int64("input_tokens", out.InputTokens),
		zap.Int64("output_tokens", out.OutputTokens),
		zap.String("finish_reason", out.FinishReason),
	)
	return out, nil
}
