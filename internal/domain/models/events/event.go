// Package events defines the progress events streamed from a chat run.
package events

import (
	"encoding/json"
	"fmt"

	"folio/internal/domain"
	"folio/internal/domain/models/actions"
)

// Type of a stream event
type Type string

const (
	TypeThought Type = "thought"
	TypeFinal   Type = "final"
)

// Event is one frame of a chat stream. Thought is set for TypeThought, Final
// for TypeFinal. On the wire both travel in "content".
type Event struct {
	Type    Type
	Thought string
	Final   *actions.FinalPayload
}

// Thought builds a progress event.
func Thought(text string) Event {
	return Event{Type: TypeThought, Thought: text}
}

// FinalEvent builds the terminal event of a successful run.
func FinalEvent(payload *actions.FinalPayload) Event {
	return Event{Type: TypeFinal, Final: payload}
}

func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case TypeThought:
		return json.Marshal(struct {
			Type    Type   `json:"type"`
			Content string `json:"content"`
		}{e.Type, e.Thought})
	case TypeFinal:
		if e.Final == nil {
			return nil, fmt.Errorf("final event without payload")
		}
		return json.Marshal(struct {
			Type    Type                  `json:"type"`
			Content *actions.FinalPayload `json:"content"`
		}{e.Type, e.Final})
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
}

// UnmarshalJSON accepts thought and final frames; final content must pass
// actions.Validate.
func (e *Event) UnmarshalJSON(data []byte) error {
	var frame struct {
		Type    Type            `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return domain.NewValidationError(fmt.Sprintf("malformed event: %v", err))
	}

	switch frame.Type {
	case TypeThought:
		var text string
		if err := json.Unmarshal(frame.Content, &text); err != nil {
			return domain.NewValidationError("thought content must be a string")
		}
		*e = Thought(text)
	case TypeFinal:
		payload, err := actions.Validate(frame.Content)
		if err != nil {
			return err
		}
		*e = FinalEvent(payload)
	default:
		return domain.NewValidationError(fmt.Sprintf("unknown event type %q", frame.Type))
	}
	return nil
}
