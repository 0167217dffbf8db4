package llm

import "context"

// ModelProvider defines the interface that chat model backends must implement.
// The orchestrator only ever issues complete (non-streaming) calls: progress is
// reported through thought events, not token deltas.
type ModelProvider interface {
	// Complete runs one chat-completion call and returns the assistant message.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "openai", "lorem")
	Name() string
}

// Role of a message in the conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string

	// ToolCalls is set on the assistant message that requested tools.
	ToolCalls []ToolCall

	// ToolCallID links a RoleTool message to the call it answers.
	ToolCallID string
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string

	// Arguments is the raw JSON object the model produced.
	Arguments string
}

// ToolDefinition describes a callable tool to the model.
type ToolDefinition struct {
	Name        string
	Description string

	// Parameters is a JSON Schema object.
	Parameters map[string]any
}

// CompletionRequest contains the parameters for one model call.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "gpt-4o-mini")
	Model string

	Messages []Message

	// Tools offered to the model. Empty means tools are disabled for this call.
	Tools []ToolDefinition

	// JSONOutput requests a JSON-object response format.
	JSONOutput bool
}

// CompletionResponse contains the provider's answer.
type CompletionResponse struct {
	// Content is the assistant text (a JSON document when JSONOutput was set)
	Content string

	// ToolCalls requested by the model, in order.
	ToolCalls []ToolCall

	// Model is the model that was used (may differ from request if aliased)
	Model string

	InputTokens  int
	OutputTokens int
}

// HasToolCalls reports whether the model asked for any tool.
func (r *CompletionResponse) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}
