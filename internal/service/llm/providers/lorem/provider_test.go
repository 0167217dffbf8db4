package lorem

import (
	"context"
	"testing"
	"time"

	"folio/internal/domain/models/actions"
	domainllm "folio/internal/domain/services/llm"
)

func TestProvider_CompleteJSONIsValidPayload(t *testing.T) {
	p := NewProvider(0)
	resp, err := p.Complete(context.Background(), &domainllm.CompletionRequest{
		Model:      "lorem",
		Messages:   []domainllm.Message{{Role: domainllm.RoleUser, Content: "hello there"}},
		Tools:      []domainllm.ToolDefinition{{Name: "read_google_sheet"}},
		JSONOutput: true,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.HasToolCalls() {
		t.Error("lorem provider must never request tools")
	}
	payload, err := actions.Validate([]byte(resp.Content))
	if err != nil {
		t.Fatalf("content is not a valid payload: %v\n%s", err, resp.Content)
	}
	if payload.AssistantMessage == "" {
		t.Error("empty assistant message")
	}
	if _, ok := payload.UIActions[0].(*actions.SetSuggestions); !ok {
		t.Errorf("first action = %T, want *actions.SetSuggestions", payload.UIActions[0])
	}
}

func TestProvider_CompleteRespectsCancellation(t *testing.T) {
	p := NewProvider(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Complete(ctx, &domainllm.CompletionRequest{Model: "lorem"}); err == nil {
		t.Fatal("expected context error")
	}
}
