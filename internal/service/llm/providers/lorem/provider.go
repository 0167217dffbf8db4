// Package lorem is a dev provider that answers with lorem ipsum. It needs no
// API key and never requests tools.
package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"

	"folio/internal/domain/models/actions"
	domainllm "folio/internal/domain/services/llm"
)

// Provider is a mock model provider that generates lorem ipsum text.
// Used for testing and development without requiring real API keys.
type Provider struct {
	mu        sync.Mutex
	generator *loremgen.Lorem
	delay     time.Duration
}

// NewProvider creates a new lorem ipsum provider. delay simulates the latency
// of a real call and may be zero.
func NewProvider(delay time.Duration) *Provider {
	return &Provider{
		generator: loremgen.New(),
		delay:     delay,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// Complete implements domainllm.ModelProvider. With JSONOutput it answers with
// a valid final payload carrying a set_suggestions action.
func (p *Provider) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	paragraph := p.generator.Paragraph(2, 4)
	suggestions := []string{
		p.generator.Sentence(3, 6),
		p.generator.Sentence(3, 6),
	}
	p.mu.Unlock()

	content := paragraph
	if req.JSONOutput {
		data, err := json.Marshal(actions.FinalPayload{
			AssistantMessage: paragraph,
			UIActions:        []actions.Action{&actions.SetSuggestions{Suggestions: suggestions}},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode lorem payload: %w", err)
		}
		content = string(data)
	}

	return &domainllm.CompletionResponse{
		Content:      content,
		Model:        req.Model,
		InputTokens:  estimateTokens(req.Messages),
		OutputTokens: len(strings.Fields(paragraph)),
	}, nil
}

// estimateTokens approximates 1 token per 4 characters.
func estimateTokens(messages []domainllm.Message) int {
	chars := 0
	for _, m := range messages {
		chars += len(m.Content)
	}
	return chars / 4
}
