// Package client is the chat side of folio: the workspace state, the
// controller that talks to the server and the executor that applies UI actions.
package client

import (
	"slices"
	"sync"
	"time"

	"folio/internal/domain/models/actions"
)

// Role of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Layout of the workspace: chat only, or chat beside the open tab.
type Layout string

const (
	LayoutChat  Layout = "chat"
	LayoutSplit Layout = "split"
)

// TabType tells how a tab's content was produced.
type TabType string

const (
	TabFile      TabType = "file"
	TabGenerated TabType = "generated"
	TabSheet     TabType = "sheet"
)

// DefaultContextRole is the context panel role before the model sets one.
const DefaultContextRole = "Virtual Clone"

// Turn is one transcript entry. Actions are set on assistant turns only.
type Turn struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
	Actions   []actions.Action
}

// TabMetadata carries type-specific tab data.
type TabMetadata struct {
	SheetID string
}

// Tab is a workspace document, keyed by ID.
type Tab struct {
	ID       string
	Title    string
	Type     TabType
	Content  string
	Language string
	Metadata TabMetadata
}

// Context is the visitor profile the model builds up during a conversation.
type Context struct {
	Role        string
	Outcome90   string
	Constraints []string
	Evidence    []string
}

// Toast is a queued notification.
type Toast struct {
	Message string
	Variant string
}

// State is a point-in-time copy of the store.
type State struct {
	Mode          actions.Mode
	Layout        Layout
	InterviewMode bool
	Turns         []Turn
	Tabs          []Tab
	ActiveTabID   string
	Context       Context
	Suggestions   []string
	Toasts        []Toast
	Loading       bool
	Thought       string
}

// ActiveTab returns the active tab, if it exists yet.
func (s State) ActiveTab() (Tab, bool) {
	for _, t := range s.Tabs {
		if t.ID == s.ActiveTabID {
			return t, true
		}
	}
	return Tab{}, false
}

// Store holds the client state. Mutations notify subscribers after the lock
// is released, so a subscriber may read or mutate the store again.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func()
	nextID int
}

// NewStore returns a store in the landing mode with the chat-only layout.
func NewStore() *Store {
	return &Store{
		state: State{
			Mode:    actions.ModeLanding,
			Layout:  LayoutChat,
			Context: Context{Role: DefaultContextRole},
		},
		subs: make(map[int]func()),
	}
}

// Subscribe registers fn to run after every change and returns a function
// that removes it.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Snapshot returns a copy that is safe to read without the lock.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Turns = slices.Clone(s.state.Turns)
	st.Tabs = slices.Clone(s.state.Tabs)
	st.Suggestions = slices.Clone(s.state.Suggestions)
	st.Toasts = slices.Clone(s.state.Toasts)
	st.Context.Constraints = slices.Clone(s.state.Context.Constraints)
	st.Context.Evidence = slices.Clone(s.state.Context.Evidence)
	return st
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	subs := make([]func(), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub()
	}
}

func (s *Store) SetMode(mode actions.Mode) {
	s.update(func(st *State) { st.Mode = mode })
}

func (s *Store) SetLayout(layout Layout) {
	s.update(func(st *State) { st.Layout = layout })
}

func (s *Store) SetInterviewMode(enabled bool) {
	s.update(func(st *State) { st.InterviewMode = enabled })
}

// AppendTurn adds a turn to the end of the transcript.
func (s *Store) AppendTurn(turn Turn) {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	s.update(func(st *State) { st.Turns = append(st.Turns, turn) })
}

// ReplaceTurn sets the content and actions of the turn with the given id.
// Unknown ids are ignored.
func (s *Store) ReplaceTurn(id, content string, acts []actions.Action) {
	s.update(func(st *State) {
		for i := range st.Turns {
			if st.Turns[i].ID == id {
				st.Turns[i].Content = content
				st.Turns[i].Actions = acts
				return
			}
		}
	})
}

func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) { st.Loading = loading })
}

func (s *Store) SetThought(text string) {
	s.update(func(st *State) { st.Thought = text })
}

// FinishLoading clears the loading flag and the progress text together.
func (s *Store) FinishLoading() {
	s.update(func(st *State) {
		st.Loading = false
		st.Thought = ""
	})
}

// UpsertTab replaces the tab with the same ID in place, or appends it.
func (s *Store) UpsertTab(tab Tab) {
	s.update(func(st *State) {
		for i := range st.Tabs {
			if st.Tabs[i].ID == tab.ID {
				st.Tabs[i] = tab
				return
			}
		}
		st.Tabs = append(st.Tabs, tab)
	})
}

func (s *Store) SetActiveTab(id string) {
	s.update(func(st *State) { st.ActiveTabID = id })
}

// UpdateContext merges the fields present in patch.
func (s *Store) UpdateContext(patch actions.UpdateContext) {
	s.update(func(st *State) {
		if patch.Role != nil {
			st.Context.Role = *patch.Role
		}
		if patch.Outcome90 != nil {
			st.Context.Outcome90 = *patch.Outcome90
		}
		if patch.Constraints != nil {
			st.Context.Constraints = slices.Clone(*patch.Constraints)
		}
		if patch.Evidence != nil {
			st.Context.Evidence = slices.Clone(*patch.Evidence)
		}
	})
}

func (s *Store) SetSuggestions(suggestions []string) {
	s.update(func(st *State) { st.Suggestions = slices.Clone(suggestions) })
}

func (s *Store) PushToast(toast Toast) {
	s.update(func(st *State) { st.Toasts = append(st.Toasts, toast) })
}

// DismissToasts empties the toast queue.
func (s *Store) DismissToasts() {
	s.update(func(st *State) { st.Toasts = nil })
}
