package events

import (
	"encoding/json"
	"testing"

	"folio/internal/domain/models/actions"
)

func TestEvent_MarshalThought(t *testing.T) {
	data, err := json.Marshal(Thought("Analyzing Request..."))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"thought","content":"Analyzing Request..."}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestEvent_FinalRoundTrip(t *testing.T) {
	ev := FinalEvent(&actions.FinalPayload{
		AssistantMessage: "Opening it now.",
		UIActions:        []actions.Action{&actions.OpenFile{Path: "Fathom_Cannabis.case"}},
	})
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"final","content":{"assistant_message":"Opening it now.","ui_actions":[{"type":"open_file","path":"Fathom_Cannabis.case"}]}}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}

	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != TypeFinal || decoded.Final == nil {
		t.Fatalf("decoded = %+v", decoded)
	}
	open, ok := decoded.Final.UIActions[0].(*actions.OpenFile)
	if !ok || open.Path != "Fathom_Cannabis.case" {
		t.Errorf("decoded action = %#v", decoded.Final.UIActions[0])
	}
}

func TestEvent_UnmarshalRejects(t *testing.T) {
	tests := map[string]string{
		"unknown type":    `{"type":"delta","content":"x"}`,
		"numeric thought": `{"type":"thought","content":1}`,
		"invalid final":   `{"type":"final","content":{"assistant_message":"x"}}`,
		"not json":        `{"type":`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			var ev Event
			if err := json.Unmarshal([]byte(raw), &ev); err == nil {
				t.Errorf("Unmarshal(%s) succeeded, want error", raw)
			}
		})
	}
}

func TestEvent_MarshalFinalWithoutPayload(t *testing.T) {
	if _, err := json.Marshal(Event{Type: TypeFinal}); err == nil {
		t.Error("expected error for final event without payload")
	}
}
