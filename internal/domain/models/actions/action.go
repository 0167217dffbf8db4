// Package actions defines the closed set of UI commands the assistant may
// issue to the workspace, and the validator that guards them.
package actions

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Type discriminates UI action variants on the wire ("type" field).
type Type string

const (
	TypeSetMode        Type = "set_mode"
	TypeSetActiveTab   Type = "set_active_tab"
	TypeUpsertTab      Type = "upsert_tab"
	TypeUpdateContext  Type = "update_context"
	TypeSetSuggestions Type = "set_suggestions"
	TypeOpenFile       Type = "open_file"
	TypeOpenSheet      Type = "open_sheet"
	TypeToast          Type = "toast"
)

// Mode is the application surface the user is looking at.
type Mode string

const (
	ModeLanding Mode = "landing"
	ModeApp     Mode = "app"
)

// Languages accepted by upsert_tab
const (
	LanguageMarkdown   = "markdown"
	LanguageJSON       = "json"
	LanguageJavaScript = "javascript"
	LanguageTypeScript = "typescript"
	LanguageText       = "text"
)

// Toast variants
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Action is a single UI command. Implementations live in this package only;
// the unexported method keeps the union closed.
type Action interface {
	ActionType() Type
	validate() error
}

// SetMode switches between the landing page and the app workspace.
type SetMode struct {
	Mode Mode `json:"mode"`
}

// SetActiveTab points the workspace at an existing (or soon to exist) tab.
type SetActiveTab struct {
	TabID string `json:"tabId"`
}

// UpsertTab creates or replaces a generated tab keyed by TabID.
type UpsertTab struct {
	TabID    string  `json:"tabId"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Language *string `json:"language,omitempty"`
}

// UpdateContext shallow-merges the visitor context panel. Nil fields are left untouched.
type UpdateContext struct {
	Role        *string   `json:"role,omitempty"`
	Outcome90   *string   `json:"outcome90,omitempty"`
	Constraints *[]string `json:"constraints,omitempty"`
	Evidence    *[]string `json:"evidence,omitempty"`
}

// SetSuggestions replaces the suggested follow-up prompts.
type SetSuggestions struct {
	Suggestions []string `json:"suggestions"`
}

// OpenFile opens a static portfolio document by path.
type OpenFile struct {
	Path string `json:"path"`
}

// OpenSheet opens a spreadsheet embed tab.
type OpenSheet struct {
	SheetID string  `json:"sheetId"`
	Title   *string `json:"title,omitempty"`
}

// Toast shows a transient notification.
type Toast struct {
	Message string  `json:"message"`
	Variant *string `json:"variant,omitempty"`
}

func (SetMode) ActionType() Type        { return TypeSetMode }
func (SetActiveTab) ActionType() Type   { return TypeSetActiveTab }
func (UpsertTab) ActionType() Type      { return TypeUpsertTab }
func (UpdateContext) ActionType() Type  { return TypeUpdateContext }
func (SetSuggestions) ActionType() Type { return TypeSetSuggestions }
func (OpenFile) ActionType() Type       { return TypeOpenFile }
func (OpenSheet) ActionType() Type      { return TypeOpenSheet }
func (Toast) ActionType() Type          { return TypeToast }

func (a SetMode) validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Mode, validation.Required, validation.In(ModeLanding, ModeApp)),
	)
}

// Presence and type of string fields are checked while decoding; empty
// strings are valid values.

func (a SetActiveTab) validate() error { return nil }

func (a UpsertTab) validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Language, validation.In(
			LanguageMarkdown, LanguageJSON, LanguageJavaScript, LanguageTypeScript, LanguageText,
		)),
	)
}

func (a UpdateContext) validate() error { return nil }

func (a SetSuggestions) validate() error { return nil }

func (a OpenFile) validate() error { return nil }

func (a OpenSheet) validate() error { return nil }

func (a Toast) validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Variant, validation.In(VariantDefault, VariantDestructive)),
	)
}

// Each variant marshals with its "type" discriminator inlined.

func (a SetMode) MarshalJSON() ([]byte, error) {
	type plain SetMode
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeSetMode, plain(a)})
}

func (a SetActiveTab) MarshalJSON() ([]byte, error) {
	type plain SetActiveTab
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeSetActiveTab, plain(a)})
}

func (a UpsertTab) MarshalJSON() ([]byte, error) {
	type plain UpsertTab
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeUpsertTab, plain(a)})
}

func (a UpdateContext) MarshalJSON() ([]byte, error) {
	type plain UpdateContext
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeUpdateContext, plain(a)})
}

func (a SetSuggestions) MarshalJSON() ([]byte, error) {
	type plain SetSuggestions
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeSetSuggestions, plain(a)})
}

func (a OpenFile) MarshalJSON() ([]byte, error) {
	type plain OpenFile
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeOpenFile, plain(a)})
}

func (a OpenSheet) MarshalJSON() ([]byte, error) {
	type plain OpenSheet
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeOpenSheet, plain(a)})
}

func (a Toast) MarshalJSON() ([]byte, error) {
	type plain Toast
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeToast, plain(a)})
}
