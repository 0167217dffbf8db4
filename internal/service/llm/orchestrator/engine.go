// Package orchestrator runs one chat request: an optional round of tool calls
// followed by a structured final answer, narrated through thought events.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"folio/internal/domain/models/actions"
	"folio/internal/domain/models/events"
	"folio/internal/domain/services/llm"
	"folio/internal/service/llm/prompts"
	"folio/internal/service/llm/tools"
)

// Progress narration emitted by the engine itself. Tool narration lives on
// the tool descriptors.
const (
	ThoughtAnalyzing  = "Analyzing Request..."
	ThoughtGenerating = "Generating Response..."
	ThoughtDrafting   = "Drafting Final Analysis..."
)

// RunRequest is one chat turn: the client's transcript and the mode flag.
type RunRequest struct {
	History       []llm.Message
	InterviewMode bool
}

// EmitFunc delivers an event to the consumer. A non-nil error stops the run.
type EmitFunc func(events.Event) error

// Engine is stateless per call and safe for concurrent use.
type Engine struct {
	provider llm.ModelProvider
	model    string
	tools    *tools.ToolRegistry
	prompts  *prompts.Set
	logger   *slog.Logger
}

// NewEngine creates an engine. registry may be empty but not nil.
func NewEngine(provider llm.ModelProvider, model string, registry *tools.ToolRegistry, promptSet *prompts.Set, logger *slog.Logger) *Engine {
	return &Engine{
		provider: provider,
		model:    model,
		tools:    registry,
		prompts:  promptSet,
		logger:   logger,
	}
}

// Stream runs the request on its own goroutine and yields events into the
// returned channel, which is closed when the run ends or panics. Cancelling
// ctx unblocks a producer whose consumer went away.
func (e *Engine) Stream(ctx context.Context, req *RunRequest) <-chan events.Event {
	ch := make(chan events.Event)
	go func() {
		defer close(ch)
		// A panic in a provider or tool ends the stream without a final.
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("chat run panicked",
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		err := e.Run(ctx, req, func(ev events.Event) error {
			select {
			case ch <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			e.logger.Error("chat run aborted", "error", err)
		}
	}()
	return ch
}

// Run executes the request, calling emit for every event. It returns nil only
// after a final event was emitted.
func (e *Engine) Run(ctx context.Context, req *RunRequest, emit EmitFunc) error {
	start := time.Now()
	if err := emit(events.Thought(ThoughtAnalyzing)); err != nil {
		return err
	}

	messages := make([]llm.Message, 0, len(req.History)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: e.prompts.System(req.InterviewMode)})
	messages = append(messages, req.History...)

	// Client disconnects must not cancel an in-flight upstream call.
	upstream := context.WithoutCancel(ctx)

	decision, err := e.provider.Complete(upstream, &llm.CompletionRequest{
		Model:      e.model,
		Messages:   messages,
		Tools:      e.tools.Definitions(),
		JSONOutput: true,
	})
	if err != nil {
		return fmt.Errorf("decision call: %w", err)
	}

	if !decision.HasToolCalls() {
		if err := emit(events.Thought(ThoughtGenerating)); err != nil {
			return err
		}
		if err := e.finalize(upstream, messages, emit); err != nil {
			return err
		}
		e.logger.Info("chat run completed", "tool_calls", 0, "duration_ms", time.Since(start).Milliseconds())
		return nil
	}

	messages = append(messages, llm.Message{
		Role:      llm.RoleAssistant,
		Content:   decision.Content,
		ToolCalls: decision.ToolCalls,
	})
	for _, call := range decision.ToolCalls {
		result, err := e.runTool(upstream, call, emit)
		if err != nil {
			return err
		}
		messages = append(messages, result)
	}

	if err := emit(events.Thought(ThoughtDrafting)); err != nil {
		return err
	}
	if err := e.finalize(upstream, messages, emit); err != nil {
		return err
	}
	e.logger.Info("chat run completed",
		"tool_calls", len(decision.ToolCalls),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// runTool executes one requested call and returns the tool turn answering it.
// Tool failures become the turn's text; only emit errors are returned.
func (e *Engine) runTool(ctx context.Context, requested llm.ToolCall, emit EmitFunc) (llm.Message, error) {
	reply := llm.Message{Role: llm.RoleTool, ToolCallID: requested.ID}

	tool := e.tools.Get(requested.Name)
	if tool == nil {
		e.logger.Warn("model requested unknown tool", "tool", requested.Name, "call_id", requested.ID)
		reply.Content = fmt.Sprintf("Error: unknown tool %q", requested.Name)
		return reply, nil
	}

	call, argErr := tools.NewToolCall(requested.ID, requested.Name, requested.Arguments)
	if err := emit(events.Thought(tool.Narrate(call.Input))); err != nil {
		return reply, err
	}

	var result tools.ToolResult
	if argErr != nil {
		result = tools.Failed(call, argErr)
	} else {
		result = e.tools.Execute(ctx, call)
	}
	if result.IsError {
		e.logger.Warn("tool call failed", "tool", call.Name, "call_id", call.ID, "error", result.Error)
	} else {
		e.logger.Debug("tool call succeeded", "tool", call.Name, "call_id", call.ID)
	}

	if err := emit(events.Thought(tool.DoneThought)); err != nil {
		return reply, err
	}
	reply.Content = tool.Render(result)
	return reply, nil
}

// finalize makes the answer call (no tools) and emits the validated payload.
func (e *Engine) finalize(ctx context.Context, messages []llm.Message, emit EmitFunc) error {
	resp, err := e.provider.Complete(ctx, &llm.CompletionRequest{
		Model:      e.model,
		Messages:   messages,
		JSONOutput: true,
	})
	if err != nil {
		return fmt.Errorf("final call: %w", err)
	}

	payload, err := actions.Validate([]byte(resp.Content))
	if err != nil {
		return fmt.Errorf("final answer rejected: %w", err)
	}
	return emit(events.FinalEvent(payload))
}
