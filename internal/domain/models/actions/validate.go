package actions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"folio/internal/domain"
)

// variant describes the wire shape of one action type.
type variant struct {
	required []string
	optional []string
	newValue func() Action
}

func (v variant) allows(field string) bool {
	return slices.Contains(v.required, field) || slices.Contains(v.optional, field)
}

var variants = map[Type]variant{
	TypeSetMode: {
		required: []string{"mode"},
		newValue: func() Action { return &SetMode{} },
	},
	TypeSetActiveTab: {
		required: []string{"tabId"},
		newValue: func() Action { return &SetActiveTab{} },
	},
	TypeUpsertTab: {
		required: []string{"tabId", "title", "content"},
		optional: []string{"language"},
		newValue: func() Action { return &UpsertTab{} },
	},
	TypeUpdateContext: {
		optional: []string{"role", "outcome90", "constraints", "evidence"},
		newValue: func() Action { return &UpdateContext{} },
	},
	TypeSetSuggestions: {
		required: []string{"suggestions"},
		newValue: func() Action { return &SetSuggestions{} },
	},
	TypeOpenFile: {
		required: []string{"path"},
		newValue: func() Action { return &OpenFile{} },
	},
	TypeOpenSheet: {
		required: []string{"sheetId"},
		optional: []string{"title"},
		newValue: func() Action { return &OpenSheet{} },
	},
	TypeToast: {
		required: []string{"message"},
		optional: []string{"variant"},
		newValue: func() Action { return &Toast{} },
	},
}

// ParseAction decodes and validates a single UI action. The returned value is
// one of the pointer variants (*SetMode, *OpenFile, ...).
func ParseAction(raw []byte) (Action, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, domain.NewValidationError("action must be a JSON object")
	}

	typeRaw, ok := fields["type"]
	if !ok {
		return nil, domain.NewValidationError(`action is missing "type"`)
	}
	var actionType Type
	if err := json.Unmarshal(typeRaw, &actionType); err != nil {
		return nil, domain.NewValidationError(`action "type" must be a string`)
	}
	v, ok := variants[actionType]
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown action type %q", actionType))
	}
	delete(fields, "type")

	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if !v.allows(name) {
			return nil, domain.NewValidationError(fmt.Sprintf("%s: unexpected field %q", actionType, name))
		}
		if bytes.Equal(bytes.TrimSpace(fields[name]), []byte("null")) {
			return nil, domain.NewValidationError(fmt.Sprintf("%s: field %q must not be null", actionType, name))
		}
	}
	for _, name := range v.required {
		if _, ok := fields[name]; !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("%s: missing required field %q", actionType, name))
		}
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("re-encode %s action: %w", actionType, err)
	}
	action := v.newValue()
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(action); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("%s: %v", actionType, err))
	}
	if err := action.validate(); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("%s: %v", actionType, err))
	}
	return action, nil
}

// FinalPayload is the assistant's completed answer: prose plus UI commands.
type FinalPayload struct {
	AssistantMessage string   `json:"assistant_message"`
	UIActions        []Action `json:"ui_actions"`
}

// MarshalJSON always emits ui_actions as an array.
func (p FinalPayload) MarshalJSON() ([]byte, error) {
	uiActions := p.UIActions
	if uiActions == nil {
		uiActions = []Action{}
	}
	return json.Marshal(struct {
		AssistantMessage string   `json:"assistant_message"`
		UIActions        []Action `json:"ui_actions"`
	}{p.AssistantMessage, uiActions})
}

// UnmarshalJSON runs the payload through Validate.
func (p *FinalPayload) UnmarshalJSON(data []byte) error {
	parsed, err := Validate(data)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// Validate checks that raw is a well-formed final payload. Extra top-level
// keys are ignored; every action must belong to exactly one variant.
func Validate(raw []byte) (*FinalPayload, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, domain.NewValidationError("final payload must be a JSON object")
	}

	messageRaw, ok := top["assistant_message"]
	if !ok {
		return nil, domain.NewValidationError(`final payload is missing "assistant_message"`)
	}
	var message *string
	if err := json.Unmarshal(messageRaw, &message); err != nil || message == nil {
		return nil, domain.NewValidationError(`"assistant_message" must be a string`)
	}

	actionsRaw, ok := top["ui_actions"]
	if !ok {
		return nil, domain.NewValidationError(`final payload is missing "ui_actions"`)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(actionsRaw, &items); err != nil || items == nil {
		return nil, domain.NewValidationError(`"ui_actions" must be an array`)
	}

	payload := &FinalPayload{AssistantMessage: *message, UIActions: make([]Action, 0, len(items))}
	for i, item := range items {
		action, err := ParseAction(item)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("ui_actions[%d]: %v", i, err))
		}
		payload.UIActions = append(payload.UIActions, action)
	}
	return payload, nil
}
