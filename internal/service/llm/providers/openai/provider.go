// Package openai implements the model provider on the OpenAI chat-completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	ooption "github.com/openai/openai-go/option"
	oshared "github.com/openai/openai-go/shared"

	"folio/internal/domain"
	domainllm "folio/internal/domain/services/llm"
)

// Provider talks to OpenAI (or any API-compatible endpoint).
type Provider struct {
	client openai.Client
}

// NewProvider creates a provider. baseURL may be empty. Retries are disabled:
// a failed call surfaces immediately.
func NewProvider(apiKey, baseURL string) *Provider {
	opts := []ooption.RequestOption{
		ooption.WithAPIKey(strings.TrimSpace(apiKey)),
		ooption.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, ooption.WithBaseURL(strings.TrimSpace(baseURL)))
	}
	return &Provider{client: openai.NewClient(opts...)}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "openai"
}

// Complete implements domainllm.ModelProvider.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    oshared.ChatModel(strings.TrimSpace(req.Model)),
		Messages: convertMessages(req.Messages),
	}
	if req.JSONOutput {
		obj := oshared.NewResponseFormatJSONObjectParam()
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{OfJSONObject: &obj}
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("auto")}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &domain.UpstreamError{Message: "openai chat completion failed", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.UpstreamError{Message: fmt.Sprintf("openai returned no choices (model %s)", resp.Model)}
	}

	msg := resp.Choices[0].Message
	result := &domainllm.CompletionResponse{
		Content:      msg.Content,
		Model:        resp.Model,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
	}
	for _, tc := range msg.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, domainllm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return result, nil
}
