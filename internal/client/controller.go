package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"folio/internal/domain/models/actions"
	"folio/internal/domain/models/events"
	"folio/internal/transport/ndjson"
)

const (
	// InterviewStartID marks the interview cold start in the processed set.
	InterviewStartID = "interview-start"

	// InterviewStartInstruction replaces the empty transcript on an interview cold start.
	InterviewStartInstruction = `[INTERVIEW_START] The user has clicked "Tailor to you". Begin the interview by introducing yourself and asking an open-ended question to understand their goals.`

	// FallbackMessage fills the placeholder when a stream ends without a final.
	FallbackMessage = "Sorry, I couldn't generate a response. Please try again."
)

// ErrorMessage is the placeholder text for a failed request.
func ErrorMessage(err error) string {
	return "Sorry, I encountered an error connecting to the AI (" + err.Error() + "). Please try again."
}

// RequestState is the controller's bookkeeping, exposed for status display.
type RequestState struct {
	Fetching               bool
	LastProcessedTurnCount int
	Processed              int
}

// Controller sends the transcript to the server whenever the store calls for
// it and folds the streamed answer back into the store. At most one request
// is in flight. A trigger that arrives while fetching is dropped; the store
// change that ends the request re-evaluates the transcript.
type Controller struct {
	store     *Store
	transport Transport
	executor  ActionExecutor
	logger    *slog.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup

	mu                     sync.Mutex
	fetching               bool
	lastProcessedTurnCount int
	processed              map[string]struct{}
}

// NewController wires a controller to store and evaluates the current state
// once. Requests run under ctx; Close cancels them.
func NewController(ctx context.Context, store *Store, transport Transport, executor ActionExecutor, logger *slog.Logger) *Controller {
	ctx, cancel := context.WithCancel(ctx)
	c := &Controller{
		store:     store,
		transport: transport,
		executor:  executor,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		processed: make(map[string]struct{}),
	}
	c.unsubscribe = store.Subscribe(c.evaluate)
	c.evaluate()
	return c
}

// Send appends a user turn. Blank input is ignored and reports false.
func (c *Controller) Send(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	c.store.AppendTurn(Turn{ID: uuid.NewString(), Role: RoleUser, Content: text})
	return true
}

// StartInterview enters the app in interview mode. With an empty transcript
// this makes the assistant open the conversation.
func (c *Controller) StartInterview() {
	c.store.SetMode(actions.ModeApp)
	c.store.SetInterviewMode(true)
}

// State returns a copy of the request bookkeeping.
func (c *Controller) State() RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return RequestState{
		Fetching:               c.fetching,
		LastProcessedTurnCount: c.lastProcessedTurnCount,
		Processed:              len(c.processed),
	}
}

// Wait blocks until no request is in flight.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close stops reacting to the store, cancels any request and waits for it.
func (c *Controller) Close() {
	c.unsubscribe()
	c.cancel()
	c.wg.Wait()
}

// evaluate decides whether the current state needs a request. The guard is
// taken and the turn marked processed before any store mutation, so the
// notifications those mutations cause find the controller busy.
func (c *Controller) evaluate() {
	snap := c.store.Snapshot()

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	if c.fetching {
		// A user turn arriving mid-request is dropped, not queued.
		if n := len(snap.Turns); n > 0 {
			last := snap.Turns[n-1]
			if _, seen := c.processed[last.ID]; last.Role == RoleUser && !seen {
				c.processed[last.ID] = struct{}{}
				c.logger.Warn("user turn sent while a request is in flight, ignoring", "turn_id", last.ID)
			}
		}
		c.mu.Unlock()
		return
	}

	var req *ChatRequest
	if n := len(snap.Turns); n > 0 {
		last := snap.Turns[n-1]
		if _, seen := c.processed[last.ID]; last.Role == RoleUser && !seen {
			c.processed[last.ID] = struct{}{}
			req = &ChatRequest{Messages: wireMessages(snap.Turns), InterviewMode: snap.InterviewMode}
		}
	} else if snap.InterviewMode && snap.Mode == actions.ModeApp {
		if _, seen := c.processed[InterviewStartID]; !seen {
			c.processed[InterviewStartID] = struct{}{}
			req = &ChatRequest{
				Messages:      []WireMessage{{Role: RoleUser, Content: InterviewStartInstruction}},
				InterviewMode: true,
			}
		}
	}
	if req == nil {
		c.mu.Unlock()
		return
	}
	c.fetching = true
	c.lastProcessedTurnCount = len(snap.Turns)
	c.wg.Add(1)
	c.mu.Unlock()

	placeholderID := uuid.NewString()
	c.store.AppendTurn(Turn{ID: placeholderID, Role: RoleAssistant})
	c.store.SetLoading(true)

	go c.run(placeholderID, req)
}

func (c *Controller) run(placeholderID string, req *ChatRequest) {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		c.fetching = false
		c.mu.Unlock()
		c.store.FinishLoading()
	}()

	start := time.Now()
	logger := c.logger.With("turn_id", placeholderID, "messages", len(req.Messages))

	gotFinal, err := c.consume(placeholderID, req, logger)
	switch {
	case err != nil && !gotFinal:
		logger.Error("chat request failed", "error", err)
		c.store.ReplaceTurn(placeholderID, ErrorMessage(err), nil)
	case err != nil:
		logger.Warn("stream broke after final", "error", err)
	case !gotFinal:
		logger.Warn("stream ended without a final event")
		c.store.ReplaceTurn(placeholderID, FallbackMessage, nil)
	default:
		logger.Info("chat request completed", "duration_ms", time.Since(start).Milliseconds())
	}
}

// consume reads the stream until it ends. It reports whether a final event
// was applied.
func (c *Controller) consume(placeholderID string, req *ChatRequest, logger *slog.Logger) (bool, error) {
	body, err := c.transport.Open(c.ctx, req)
	if err != nil {
		return false, err
	}
	defer func() { _ = body.Close() }()

	dec := ndjson.NewDecoder(body, logger)
	gotFinal := false
	for {
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return gotFinal, nil
		}
		if err != nil {
			return gotFinal, err
		}

		switch ev.Type {
		case events.TypeThought:
			c.store.SetThought(ev.Thought)
		case events.TypeFinal:
			if gotFinal {
				logger.Warn("ignoring extra final event")
				continue
			}
			gotFinal = true
			c.store.ReplaceTurn(placeholderID, ev.Final.AssistantMessage, ev.Final.UIActions)
			for _, action := range ev.Final.UIActions {
				c.executor.Execute(action)
			}
		}
	}
}

func wireMessages(turns []Turn) []WireMessage {
	msgs := make([]WireMessage, len(turns))
	for i, t := range turns {
		msgs[i] = WireMessage{Role: t.Role, Content: t.Content}
	}
	return msgs
}
