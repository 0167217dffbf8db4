package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"folio/internal/client"
	"folio/internal/content"
	"folio/internal/domain/models/actions"
)

// Options configures a chat session.
type Options struct {
	Transport   client.Transport
	Catalog     *content.Catalog
	Logger      *slog.Logger
	Interview   bool
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// Run starts a chat session: the bubbletea UI when Interactive is set,
// line mode otherwise.
func Run(ctx context.Context, opts Options) error {
	store := client.NewStore()
	executor := client.NewExecutor(store, opts.Catalog, opts.Logger)
	controller := client.NewController(ctx, store, opts.Transport, executor, opts.Logger)
	defer controller.Close()

	if !opts.Interactive {
		return runLines(ctx, store, controller, opts)
	}

	p := tea.NewProgram(initialModel(store, controller), tea.WithAltScreen(), tea.WithContext(ctx))
	// Send blocks until the program loop receives, and store changes can
	// originate inside Update, so deliver asynchronously.
	unsubscribe := store.Subscribe(func() { go p.Send(stateMsg{}) })
	defer unsubscribe()

	if opts.Interview {
		controller.StartInterview()
	}
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// runLines reads one question per line and prints each answer once the
// request has finished.
func runLines(ctx context.Context, store *client.Store, controller *client.Controller, opts Options) error {
	out := opts.Out
	color := colorEnabled()
	paint := func(s string, style func(...string) string) string {
		if !color {
			return s
		}
		return style(s)
	}

	printed := 0
	flush := func() {
		controller.Wait()
		st := store.Snapshot()
		for _, t := range st.Turns[printed:] {
			if t.Role != client.RoleAssistant {
				continue
			}
			fmt.Fprintln(out, t.Content)
			if summary := summarizeActions(t.Actions); summary != "" {
				fmt.Fprintln(out, paint(summary, subtle.Render))
			}
		}
		printed = len(st.Turns)
		if len(st.Suggestions) > 0 {
			fmt.Fprintln(out, paint("try: "+strings.Join(st.Suggestions, " · "), muted.Render))
		}
		for _, t := range st.Toasts {
			fmt.Fprintln(out, paint("● "+t.Message, cyan.Render))
		}
		store.DismissToasts()
	}

	if opts.Interview {
		controller.StartInterview()
		flush()
	}

	store.SetMode(actions.ModeApp)
	scanner := bufio.NewScanner(opts.In)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}
		if !controller.Send(input) {
			continue
		}
		flush()
	}
	return scanner.Err()
}
