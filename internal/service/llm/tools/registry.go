package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"folio/internal/domain/services/llm"
)

// ToolCall represents a single tool invocation request.
type ToolCall struct {
	ID    string                 `json:"id"`    // tool call id from the model
	Name  string                 `json:"name"`  // tool name
	Input map[string]interface{} `json:"input"` // tool parameters
}

// NewToolCall decodes the model's raw argument string. On malformed arguments
// the call is still returned (with an empty input) alongside the error, so the
// caller can narrate it and report the failure back to the model.
func NewToolCall(id, name, arguments string) (ToolCall, error) {
	call := ToolCall{ID: id, Name: name, Input: map[string]interface{}{}}
	if strings.TrimSpace(arguments) == "" {
		return call, nil
	}
	var input map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &input); err != nil {
		return call, fmt.Errorf("invalid tool arguments: %w", err)
	}
	if input != nil {
		call.Input = input
	}
	return call, nil
}

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	ID      string      `json:"id"`       // tool call id (matches ToolCall.ID)
	Name    string      `json:"name"`     // tool name (matches ToolCall.Name)
	Result  interface{} `json:"result"`   // execution result (nil if error)
	Error   error       `json:"error"`    // execution error (nil if success)
	IsError bool        `json:"is_error"` // whether execution failed
}

// Failed builds an error result for call.
func Failed(call ToolCall, err error) ToolResult {
	return ToolResult{ID: call.ID, Name: call.Name, Error: err, IsError: true}
}

// Tool is a handler descriptor: everything the orchestrator needs to offer,
// narrate, run and report one tool.
type Tool struct {
	Definition llm.ToolDefinition
	Executor   ToolExecutor

	// StartThought narrates the call before it runs.
	StartThought func(input map[string]interface{}) string
	// DoneThought is emitted after the call finishes, success or not.
	DoneThought string

	// ErrorPrefix is prepended to the error message in the tool turn.
	ErrorPrefix string
	// MaxResultChars truncates the rendered result. Zero means no cap.
	MaxResultChars int
}

// Name returns the tool name offered to the model.
func (t *Tool) Name() string { return t.Definition.Name }

// Narrate returns the start thought for input.
func (t *Tool) Narrate(input map[string]interface{}) string {
	if t.StartThought == nil {
		return ""
	}
	return t.StartThought(input)
}

// Render turns a result into the text of the tool turn sent back to the model.
func (t *Tool) Render(result ToolResult) string {
	if result.IsError {
		msg := "unknown error"
		if result.Error != nil {
			msg = result.Error.Error()
		}
		return t.ErrorPrefix + msg
	}

	var text string
	switch v := result.Result.(type) {
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return t.ErrorPrefix + fmt.Sprintf("failed to encode result: %v", err)
		}
		text = strings.TrimSuffix(buf.String(), "\n")
	}

	if t.MaxResultChars > 0 {
		text = Truncate(text, t.MaxResultChars)
	}
	return text
}

// Truncate keeps at most max characters of s.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// ToolRegistry manages tool descriptors and handles tool execution.
// It is thread-safe and can be used concurrently.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	order []string
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool to the registry.
// If a tool with the same name already exists, it will be replaced in place.
func (r *ToolRegistry) Register(tool *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := tool.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// Get retrieves a tool by name.
// Returns nil if the tool is not registered.
func (r *ToolRegistry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Definitions returns the tool catalog in registration order.
func (r *ToolRegistry) Definitions() []llm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Execute runs a single tool and returns the result.
// Unknown tools and executor errors are reported in the result, never returned.
func (r *ToolRegistry) Execute(ctx context.Context, call ToolCall) ToolResult {
	tool := r.Get(call.Name)
	if tool == nil {
		return Failed(call, fmt.Errorf("unknown tool %q", call.Name))
	}

	if err := ctx.Err(); err != nil {
		return Failed(call, err)
	}

	result, err := tool.Executor.Execute(ctx, call.Input)
	if err != nil {
		return Failed(call, err)
	}

	return ToolResult{
		ID:     call.ID,
		Name:   call.Name,
		Result: result,
	}
}
