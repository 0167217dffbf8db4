package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"folio/internal/config"
	"folio/internal/domain"
	"folio/internal/domain/models/events"
	"folio/internal/domain/services/llm"
	"folio/internal/httputil"
	"folio/internal/service/llm/orchestrator"
	"folio/internal/transport/ndjson"
)

// ChatStreamer produces the event stream for one chat request.
// *orchestrator.Engine satisfies it.
type ChatStreamer interface {
	Stream(ctx context.Context, req *orchestrator.RunRequest) <-chan events.Event
}

// ChatMessage is one transcript entry sent by the client.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Validate implements validation.Validatable.
func (m ChatMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Role, validation.Required, validation.In(string(llm.RoleUser), string(llm.RoleAssistant), string(llm.RoleSystem))),
	)
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Messages      []ChatMessage `json:"messages"`
	InterviewMode bool          `json:"interviewMode"`
}

// Validate implements validation.Validatable. Each message is validated too.
func (r ChatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Messages, validation.Required, validation.Length(1, config.MaxChatMessages)),
	)
}

func (r ChatRequest) history() []llm.Message {
	history := make([]llm.Message, len(r.Messages))
	for i, m := range r.Messages {
		history[i] = llm.Message{Role: llm.Role(m.Role), Content: m.Content}
	}
	return history
}

// ChatHandler streams chat runs as NDJSON
type ChatHandler struct {
	engine ChatStreamer
	config *ndjson.Config
	logger *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(engine ChatStreamer, cfg *ndjson.Config, logger *slog.Logger) *ChatHandler {
	if cfg == nil {
		cfg = ndjson.DefaultConfig()
	}
	return &ChatHandler{
		engine: engine,
		config: cfg,
		logger: logger,
	}
}

// Chat runs one orchestrated turn and streams its events
// POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := httputil.ParseJSON(w, r, &req, config.MaxChatRequestBytes); err != nil {
		handleError(w, domainParseError(err))
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, domain.NewValidationError(err.Error()))
		return
	}

	requestID := uuid.NewString()
	logger := h.logger.With("request_id", requestID)
	logger.Info("chat request",
		"messages", len(req.Messages),
		"interview_mode", req.InterviewMode,
	)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(http.StatusOK)

	// Cancelling on return releases a producer blocked on a client that left.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stream := h.engine.Stream(ctx, &orchestrator.RunRequest{
		History:       req.history(),
		InterviewMode: req.InterviewMode,
	})
	out := ndjson.NewWriter(w)

	var keepAlive <-chan time.Time
	if h.config.KeepAliveInterval > 0 {
		ticker := time.NewTicker(h.config.KeepAliveInterval)
		defer ticker.Stop()
		keepAlive = ticker.C
	}

	start := time.Now()
	frames := 0
	finalSent := false
	for {
		select {
		case ev, ok := <-stream:
			if !ok {
				logger.Info("chat stream finished",
					"frames", frames,
					"final", finalSent,
					"duration_ms", time.Since(start).Milliseconds(),
				)
				return
			}
			if err := out.WriteEvent(ev); err != nil {
				logger.Warn("client disconnected", "error", err)
				return
			}
			frames++
			if ev.Type == events.TypeFinal {
				finalSent = true
			}
		case <-keepAlive:
			if err := out.WriteKeepAlive(); err != nil {
				logger.Warn("keepalive failed, client disconnected", "error", err)
				return
			}
		}
	}
}

// domainParseError keeps size errors intact and turns decode errors into
// validation errors.
func domainParseError(err error) error {
	if errors.Is(err, httputil.ErrBodyTooLarge) {
		return err
	}
	return domain.NewValidationError("invalid request body: " + err.Error())
}
