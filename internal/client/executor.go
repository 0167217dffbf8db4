package client

import (
	"log/slog"

	"folio/internal/content"
	"folio/internal/domain/models/actions"
)

// ActionExecutor applies one UI action to client state.
type ActionExecutor interface {
	Execute(action actions.Action)
}

// Executor applies actions to a Store. Files are resolved against a content
// catalog.
type Executor struct {
	store   *Store
	catalog *content.Catalog
	logger  *slog.Logger
}

// NewExecutor creates an executor over store and catalog.
func NewExecutor(store *Store, catalog *content.Catalog, logger *slog.Logger) *Executor {
	return &Executor{store: store, catalog: catalog, logger: logger}
}

// Execute applies action. It accepts the pointer variants produced by
// actions.Validate.
func (e *Executor) Execute(action actions.Action) {
	e.logger.Debug("executing action", "type", action.ActionType())

	switch a := action.(type) {
	case *actions.SetMode:
		e.store.SetMode(a.Mode)

	case *actions.OpenFile:
		doc, ok := e.catalog.Lookup(a.Path)
		if !ok {
			e.logger.Warn("open_file for unknown path", "path", a.Path)
			return
		}
		e.openTab(Tab{
			ID:       a.Path,
			Title:    a.Path,
			Type:     TabFile,
			Content:  doc.Content,
			Language: doc.Language,
		})

	case *actions.OpenSheet:
		title := "Google Sheet"
		if a.Title != nil && *a.Title != "" {
			title = *a.Title
		}
		e.openTab(Tab{
			ID:       a.SheetID,
			Title:    title,
			Type:     TabSheet,
			Metadata: TabMetadata{SheetID: a.SheetID},
		})

	case *actions.UpsertTab:
		language := actions.LanguageMarkdown
		if a.Language != nil {
			language = *a.Language
		}
		e.openTab(Tab{
			ID:       a.TabID,
			Title:    a.Title,
			Type:     TabGenerated,
			Content:  a.Content,
			Language: language,
		})

	case *actions.SetActiveTab:
		e.store.SetActiveTab(a.TabID)

	case *actions.UpdateContext:
		e.store.UpdateContext(*a)

	case *actions.SetSuggestions:
		e.store.SetSuggestions(a.Suggestions)

	case *actions.Toast:
		variant := actions.VariantDefault
		if a.Variant != nil {
			variant = *a.Variant
		}
		e.store.PushToast(Toast{Message: a.Message, Variant: variant})

	default:
		e.logger.Warn("unsupported action", "type", action.ActionType())
	}
}

// openTab upserts tab, focuses it and shows the split layout.
func (e *Executor) openTab(tab Tab) {
	e.store.UpsertTab(tab)
	e.store.SetActiveTab(tab.ID)
	e.store.SetLayout(LayoutSplit)
}
