package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"folio/internal/domain/models/actions"
	"folio/internal/domain/models/events"
	"folio/internal/domain/services/llm"
	"folio/internal/service/llm/prompts"
	"folio/internal/service/llm/tools"
	"folio/internal/service/llm/tools/external"
)

// stubModel replays scripted responses and records every request.
type stubModel struct {
	mu        sync.Mutex
	responses []*llm.CompletionResponse
	errs      map[int]error
	requests  []llm.CompletionRequest
}

func (s *stubModel) Name() string { return "stub" }

func (s *stubModel) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *req
	snapshot.Messages = append([]llm.Message(nil), req.Messages...)
	s.requests = append(s.requests, snapshot)
	i := len(s.requests) - 1
	if err := s.errs[i]; err != nil {
		return nil, err
	}
	if i >= len(s.responses) {
		return nil, errors.New("stub: no scripted response")
	}
	return s.responses[i], nil
}

type stubSheets struct {
	snapshot *external.Spreadsheet
	err      error
}

func (s *stubSheets) Snapshot(ctx context.Context, id string) (*external.Spreadsheet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

type stubArchive struct {
	err error
}

func (s *stubArchive) Search(ctx context.Context, q external.ArchiveQuery) (*external.ArchiveResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &external.ArchiveResponse{Results: []json.RawMessage{json.RawMessage(`{"doc":"deck.pdf"}`)}}, nil
}

func finalJSON(t *testing.T, message string, acts ...actions.Action) *llm.CompletionResponse {
	t.Helper()
	data, err := json.Marshal(actions.FinalPayload{AssistantMessage: message, UIActions: acts})
	if err != nil {
		t.Fatalf("marshal final: %v", err)
	}
	return &llm.CompletionResponse{Content: string(data)}
}

func newTestEngine(t *testing.T, model llm.ModelProvider, sheets external.SheetsReader, archive external.ArchiveSearcher) *Engine {
	t.Helper()
	set, err := prompts.Default()
	if err != nil {
		t.Fatalf("prompts: %v", err)
	}
	registry := tools.NewToolRegistryBuilder().WithSheets(sheets).WithArchive(archive).Build()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(model, "gpt-4o-mini", registry, set, logger)
}

func runCollect(t *testing.T, e *Engine, req *RunRequest) ([]events.Event, error) {
	t.Helper()
	var got []events.Event
	err := e.Run(context.Background(), req, func(ev events.Event) error {
		got = append(got, ev)
		return nil
	})
	return got, err
}

func thoughts(evs []events.Event) []string {
	var out []string
	for _, ev := range evs {
		if ev.Type == events.TypeThought {
			out = append(out, ev.Thought)
		}
	}
	return out
}

func userTurn(content string) []llm.Message {
	return []llm.Message{{Role: llm.RoleUser, Content: content}}
}

func TestEngine_NoToolsSequence(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{
		{Content: `{"assistant_message":"ignored","ui_actions":[]}`},
		finalJSON(t, "Hi, I'm Rob.", &actions.OpenFile{Path: "OnePager.md"}),
	}}
	engine := newTestEngine(t, model, &stubSheets{}, &stubArchive{})

	got, err := runCollect(t, engine, &RunRequest{History: userTurn("Who are you?")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(got), got)
	}
	if got[0].Thought != ThoughtAnalyzing || got[1].Thought != ThoughtGenerating {
		t.Errorf("thoughts = %v", thoughts(got))
	}
	if got[2].Type != events.TypeFinal || got[2].Final.AssistantMessage != "Hi, I'm Rob." {
		t.Errorf("final = %+v", got[2])
	}

	if len(model.requests) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(model.requests))
	}
	decision, final := model.requests[0], model.requests[1]
	if len(decision.Tools) != 2 || !decision.JSONOutput {
		t.Errorf("decision call: tools=%d json=%v", len(decision.Tools), decision.JSONOutput)
	}
	if len(final.Tools) != 0 || !final.JSONOutput {
		t.Errorf("final call: tools=%d json=%v", len(final.Tools), final.JSONOutput)
	}
	if len(final.Messages) != 2 || final.Messages[0].Role != llm.RoleSystem {
		t.Errorf("final call should reuse system + history, got %d messages", len(final.Messages))
	}
	if !strings.HasSuffix(final.Messages[0].Content, "STANDARD MODE. Answer questions about the portfolio.") {
		t.Error("system prompt should carry the standard directive")
	}
}

func TestEngine_InterviewDirective(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{
		{Content: `{}`},
		finalJSON(t, "What are you hiring for?"),
	}}
	engine := newTestEngine(t, model, &stubSheets{}, &stubArchive{})

	if _, err := runCollect(t, engine, &RunRequest{History: userTurn("[INTERVIEW_START]"), InterviewMode: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	system := model.requests[0].Messages[0].Content
	if !strings.HasSuffix(system, "\n\nINTERVIEW MODE IS ACTIVE. Start with a broad, open-ended question to understand the user's goal.") {
		t.Errorf("system prompt tail = %q", system[len(system)-40:])
	}
}

func TestEngine_ToolOrderAndNarration(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{
		{
			Content: "",
			ToolCalls: []llm.ToolCall{
				{ID: "call_1", Name: tools.ReadGoogleSheet, Arguments: `{"sheetId":"abc"}`},
				{ID: "call_2", Name: tools.SearchKnowledgeBase, Arguments: `{"query":"fathom"}`},
			},
		},
		finalJSON(t, "Here is the model."),
	}}
	sheets := &stubSheets{snapshot: &external.Spreadsheet{Title: "Model A", Sheets: []external.Sheet{}}}
	engine := newTestEngine(t, model, sheets, &stubArchive{})

	got, err := runCollect(t, engine, &RunRequest{History: userTurn("Show me your work")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		ThoughtAnalyzing,
		"Reading Google Sheet (abc)...",
		"Synthesizing Financial Data...",
		`Searching Archive for "fathom"...`,
		"Analyzing Archived Documents...",
		ThoughtDrafting,
	}
	gotThoughts := thoughts(got)
	if strings.Join(gotThoughts, "|") != strings.Join(want, "|") {
		t.Errorf("thoughts:\n got  %v\n want %v", gotThoughts, want)
	}
	if last := got[len(got)-1]; last.Type != events.TypeFinal {
		t.Errorf("last event = %+v, want final", last)
	}

	final := model.requests[1].Messages
	if len(final) != 5 {
		t.Fatalf("final call messages = %d, want 5", len(final))
	}
	if final[2].Role != llm.RoleAssistant || len(final[2].ToolCalls) != 2 {
		t.Errorf("decision turn = %+v", final[2])
	}
	if final[3].ToolCallID != "call_1" || final[3].Content != `{"title":"Model A","sheets":[]}` {
		t.Errorf("sheet turn = %+v", final[3])
	}
	if final[4].ToolCallID != "call_2" || final[4].Content != `[{"doc":"deck.pdf"}]` {
		t.Errorf("archive turn = %+v", final[4])
	}
}

func TestEngine_ToolFailuresAreAbsorbed(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{
		{ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: tools.ReadGoogleSheet, Arguments: `{"sheetId":"abc"}`},
			{ID: "call_2", Name: tools.SearchKnowledgeBase, Arguments: `{"query":"deck"}`},
		}},
		finalJSON(t, "I couldn't reach the data, but here is what I know."),
	}}
	engine := newTestEngine(t, model,
		&stubSheets{err: errors.New("permission denied")},
		&stubArchive{err: errors.New("connection refused")},
	)

	got, err := runCollect(t, engine, &RunRequest{History: userTurn("numbers?")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got[len(got)-1].Type != events.TypeFinal {
		t.Fatal("run should still produce a final")
	}

	final := model.requests[1].Messages
	if final[3].Content != "Error: permission denied" {
		t.Errorf("sheet failure content = %q", final[3].Content)
	}
	if final[4].Content != "Archive Error: connection refused" {
		t.Errorf("archive failure content = %q", final[4].Content)
	}
}

func TestEngine_SheetResultTruncated(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{
		{ToolCalls: []llm.ToolCall{{ID: "call_1", Name: tools.ReadGoogleSheet, Arguments: `{"sheetId":"big"}`}}},
		finalJSON(t, "Big sheet."),
	}}
	sheets := &stubSheets{snapshot: &external.Spreadsheet{Title: strings.Repeat("x", 150000)}}
	engine := newTestEngine(t, model, sheets, &stubArchive{})

	if _, err := runCollect(t, engine, &RunRequest{History: userTurn("read it")}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	content := model.requests[1].Messages[3].Content
	if len(content) != 100000 {
		t.Errorf("tool result length = %d, want 100000", len(content))
	}
	if !strings.HasPrefix(content, `{"title":"xxx`) {
		t.Errorf("unexpected prefix %q", content[:20])
	}
}

func TestEngine_UnknownToolGetsSyntheticReply(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{
		{ToolCalls: []llm.ToolCall{{ID: "call_9", Name: "delete_everything", Arguments: `{}`}}},
		finalJSON(t, "Done."),
	}}
	engine := newTestEngine(t, model, &stubSheets{}, &stubArchive{})

	got, err := runCollect(t, engine, &RunRequest{History: userTurn("hi")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(thoughts(got), "|") != ThoughtAnalyzing+"|"+ThoughtDrafting {
		t.Errorf("unknown tools must not be narrated, thoughts = %v", thoughts(got))
	}
	reply := model.requests[1].Messages[3]
	if reply.ToolCallID != "call_9" || reply.Content != `Error: unknown tool "delete_everything"` {
		t.Errorf("synthetic reply = %+v", reply)
	}
}

func TestEngine_MalformedArgumentsAreToolFailures(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{
		{ToolCalls: []llm.ToolCall{{ID: "call_1", Name: tools.ReadGoogleSheet, Arguments: `{"sheetId":`}}},
		finalJSON(t, "Sorry."),
	}}
	engine := newTestEngine(t, model, &stubSheets{}, &stubArchive{})

	got, err := runCollect(t, engine, &RunRequest{History: userTurn("hi")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if th := thoughts(got); th[1] != "Reading Google Sheet ()..." {
		t.Errorf("thoughts = %v", th)
	}
	reply := model.requests[1].Messages[3]
	if !strings.HasPrefix(reply.Content, "Error: invalid tool arguments") {
		t.Errorf("reply = %q", reply.Content)
	}
}

func TestEngine_InvalidFinalEmitsNoFinal(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{
		{Content: `{}`},
		{Content: `{"assistant_message":"x","ui_actions":[{"type":"explode"}]}`},
	}}
	engine := newTestEngine(t, model, &stubSheets{}, &stubArchive{})

	got, err := runCollect(t, engine, &RunRequest{History: userTurn("hi")})
	if err == nil {
		t.Fatal("expected error for invalid final payload")
	}
	for _, ev := range got {
		if ev.Type == events.TypeFinal {
			t.Fatal("no final may be emitted for an invalid payload")
		}
	}
}

func TestEngine_DecisionErrorAborts(t *testing.T) {
	model := &stubModel{errs: map[int]error{0: errors.New("rate limited")}}
	engine := newTestEngine(t, model, &stubSheets{}, &stubArchive{})

	got, err := runCollect(t, engine, &RunRequest{History: userTurn("hi")})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err = %v", err)
	}
	if len(got) != 1 || got[0].Thought != ThoughtAnalyzing {
		t.Errorf("events = %+v", got)
	}
}

func TestEngine_EmitErrorStopsRun(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{{Content: `{}`}, finalJSON(t, "x")}}
	engine := newTestEngine(t, model, &stubSheets{}, &stubArchive{})

	gone := errors.New("client gone")
	err := engine.Run(context.Background(), &RunRequest{History: userTurn("hi")}, func(ev events.Event) error {
		if ev.Thought == ThoughtGenerating {
			return gone
		}
		return nil
	})
	if !errors.Is(err, gone) {
		t.Fatalf("err = %v, want %v", err, gone)
	}
	if len(model.requests) != 1 {
		t.Errorf("final call should not run after emit failed, got %d calls", len(model.requests))
	}
}

func TestEngine_OpExQuestionOpensFathomCase(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{
		{Content: `{"assistant_message":"","ui_actions":[]}`},
		finalJSON(t, "I rebuilt procurement and automated reporting.",
			&actions.OpenFile{Path: "Fathom_Cannabis.case"},
		),
	}}
	engine := newTestEngine(t, model, &stubSheets{}, &stubArchive{})

	var got []events.Event
	for ev := range engine.Stream(context.Background(), &RunRequest{History: userTurn("How did you cut OpEx by 40% at Fathom?")}) {
		got = append(got, ev)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	final := got[2].Final
	if final == nil || len(final.UIActions) != 1 {
		t.Fatalf("final = %+v", got[2])
	}
	open, ok := final.UIActions[0].(*actions.OpenFile)
	if !ok || open.Path != "Fathom_Cannabis.case" {
		t.Errorf("action = %#v", final.UIActions[0])
	}
}

func TestEngine_StreamStopsWhenConsumerLeaves(t *testing.T) {
	model := &stubModel{responses: []*llm.CompletionResponse{{Content: `{}`}, finalJSON(t, "x")}}
	engine := newTestEngine(t, model, &stubSheets{}, &stubArchive{})

	ctx, cancel := context.WithCancel(context.Background())
	ch := engine.Stream(ctx, &RunRequest{History: userTurn("hi")})
	<-ch // first thought
	cancel()

	done := make(chan struct{})
	go func() {
		for range ch {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after cancellation")
	}
}

type panickingModel struct{}

func (panickingModel) Name() string { return "panicky" }

func (panickingModel) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	panic("provider exploded")
}

func TestEngine_StreamSurvivesProviderPanic(t *testing.T) {
	engine := newTestEngine(t, panickingModel{}, &stubSheets{}, &stubArchive{})

	var got []events.Event
	done := make(chan struct{})
	go func() {
		for ev := range engine.Stream(context.Background(), &RunRequest{History: userTurn("hi")}) {
			got = append(got, ev)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after a provider panic")
	}
	if len(got) != 1 || got[0].Type != events.TypeThought {
		t.Errorf("events = %+v, want only the opening thought", got)
	}
}
