// Package tui is the terminal front end for folio chat: a bubbletea program
// on a TTY and a plain line mode otherwise.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/client"
	"folio/internal/domain/models/actions"
)

// stateMsg tells the program the store changed.
type stateMsg struct{}

type chatModel struct {
	store      *client.Store
	controller *client.Controller

	chat      viewport.Model
	doc       viewport.Model
	textInput textinput.Model
	spinner   spinner.Model
	state     client.State
	notice    string
	ready     bool
	width     int
	height    int
	showHelp  bool
}

func initialModel(store *client.Store, controller *client.Controller) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about the portfolio or type /help..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 80

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(clrBrand)

	return chatModel{
		store:      store,
		controller: controller,
		textInput:  ti,
		spinner:    s,
		state:      store.Snapshot(),
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textInput, tiCmd = m.textInput.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+k" {
			m.showHelp = !m.showHelp
			m.applyWindowSize(m.width, m.height)
			return m, nil
		}
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.cycleTab()
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}
			m.textInput.SetValue("")
			if strings.HasPrefix(input, "/") {
				return m.runCommand(input)
			}
			if m.state.Loading {
				m.notice = "Still answering the last question..."
				return m, nil
			}
			m.notice = ""
			m.store.SetMode(actions.ModeApp)
			m.controller.Send(input)
			return m, m.spinner.Tick
		}

	case tea.WindowSizeMsg:
		m.applyWindowSize(msg.Width, msg.Height)

	case stateMsg:
		m.state = m.store.Snapshot()
		m.refresh()
		return m, tea.Batch(tiCmd, spCmd)
	}

	m.chat, vpCmd = m.chat.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m chatModel) runCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/help":
		m.showHelp = !m.showHelp
		m.applyWindowSize(m.width, m.height)
	case "/interview":
		m.controller.StartInterview()
	case "/tab":
		if len(fields) < 2 {
			m.notice = "usage: /tab <id>"
			break
		}
		m.store.SetActiveTab(strings.Join(fields[1:], " "))
	case "/chat":
		m.store.SetLayout(client.LayoutChat)
	case "/split":
		m.store.SetLayout(client.LayoutSplit)
	case "/dismiss":
		m.store.DismissToasts()
	default:
		m.notice = "unknown command " + fields[0] + " (try /help)"
	}
	return m, nil
}

// cycleTab focuses the next workspace tab.
func (m *chatModel) cycleTab() {
	tabs := m.state.Tabs
	if len(tabs) == 0 {
		return
	}
	next := 0
	for i, t := range tabs {
		if t.ID == m.state.ActiveTabID {
			next = (i + 1) % len(tabs)
			break
		}
	}
	m.store.SetActiveTab(tabs[next].ID)
	m.store.SetLayout(client.LayoutSplit)
}

func (m chatModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var b strings.Builder

	if m.split() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.chat.View(), m.renderDocPane()))
	} else {
		b.WriteString(m.chat.View())
	}
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.renderHelpBlock())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.state.Loading {
		b.WriteString(m.spinner.View() + " ")
	} else {
		b.WriteString(prompt("folio"))
	}
	b.WriteString(m.textInput.View())
	return b.String()
}

func (m chatModel) split() bool {
	if m.state.Layout != client.LayoutSplit {
		return false
	}
	_, ok := m.state.ActiveTab()
	return ok && m.width >= 80
}

func (m *chatModel) applyWindowSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	m.width = width
	m.height = height
	m.textInput.Width = maxInt(width-10, 1)

	reservedHeight := 3 // status + input rows
	if m.showHelp {
		reservedHeight += lipgloss.Height(m.renderHelpBlock()) + 1
	}
	vpHeight := maxInt(height-reservedHeight, 1)

	chatWidth := maxInt(width-2, 1)
	if m.split() {
		chatWidth = maxInt(width/2-1, 1)
	}
	docWidth := maxInt(width-chatWidth-4, 1)

	if !m.ready {
		m.chat = viewport.New(chatWidth, vpHeight)
		m.doc = viewport.New(docWidth, maxInt(vpHeight-3, 1))
		m.ready = true
	} else {
		m.chat.Width, m.chat.Height = chatWidth, vpHeight
		m.doc.Width, m.doc.Height = docWidth, maxInt(vpHeight-3, 1)
	}
	m.refresh()
}

// refresh re-renders viewport content from the last snapshot.
func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.applyWidths()
	m.chat.SetContent(lipgloss.NewStyle().Width(m.chat.Width).Render(renderTranscript(m.state)))
	m.chat.GotoBottom()
	if tab, ok := m.state.ActiveTab(); ok {
		m.doc.SetContent(lipgloss.NewStyle().Width(m.doc.Width).Render(tab.Content))
	}
}

func (m *chatModel) applyWidths() {
	chatWidth := maxInt(m.width-2, 1)
	if m.split() {
		chatWidth = maxInt(m.width/2-1, 1)
	}
	m.chat.Width = chatWidth
	m.doc.Width = maxInt(m.width-chatWidth-4, 1)
}

func (m chatModel) renderDocPane() string {
	tab, _ := m.state.ActiveTab()
	title := brand.Render(tab.Title)
	if tab.Type == client.TabSheet {
		title += " " + dim("(sheet "+tab.Metadata.SheetID+")")
	}
	return paneStyle.Width(m.doc.Width).Render(title + "\n" + m.doc.View())
}

func (m chatModel) renderStatus() string {
	var parts []string
	if m.state.Loading {
		thought := m.state.Thought
		if thought == "" {
			thought = "Thinking..."
		}
		parts = append(parts, yellow.Render(thought))
	}
	if m.notice != "" {
		parts = append(parts, red.Render(m.notice))
	}
	for _, t := range m.state.Toasts {
		style := cyan
		if t.Variant == actions.VariantDestructive {
			style = red
		}
		parts = append(parts, style.Render("● "+t.Message))
	}
	if len(m.state.Suggestions) > 0 {
		parts = append(parts, dim("try: ")+muted.Render(strings.Join(m.state.Suggestions, " · ")))
	}
	if len(parts) == 0 {
		parts = append(parts, dim(renderContext(m.state.Context)))
	}
	return lipgloss.NewStyle().MaxWidth(maxInt(m.width, 1)).Render(strings.Join(parts, "  "))
}

func (m chatModel) renderHelpBlock() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(clrSubtle).
		Padding(0, 1).
		MaxWidth(maxInt(m.width-2, 1)).
		Render(formatHelp())
}

func formatHelp() string {
	var b strings.Builder
	b.WriteString(brand.Render("Commands:\n"))
	fmt.Fprintf(&b, "  %s  %s\n", keyword.Render("/interview"), muted.Render("Tailor the conversation to you"))
	fmt.Fprintf(&b, "  %s  %s\n", keyword.Render("/tab <id>"), muted.Render("Focus a workspace tab (Tab cycles)"))
	fmt.Fprintf(&b, "  %s  %s\n", keyword.Render("/chat, /split"), muted.Render("Switch layout"))
	fmt.Fprintf(&b, "  %s  %s\n", keyword.Render("/dismiss"), muted.Render("Clear notifications"))
	fmt.Fprintf(&b, "  %s  %s\n", keyword.Render("/quit"), muted.Render("Exit"))
	b.WriteString(dim("  Any other text is sent to the assistant"))
	return b.String()
}

// renderTranscript formats every turn; the in-flight placeholder is skipped
// while empty.
func renderTranscript(st client.State) string {
	if len(st.Turns) == 0 {
		return dim("Ask about experience, case studies or skills. /interview tailors the chat to you.")
	}
	blocks := make([]string, 0, len(st.Turns))
	for _, t := range st.Turns {
		if t.Content == "" {
			continue
		}
		switch t.Role {
		case client.RoleUser:
			blocks = append(blocks, prompt("you")+t.Content)
		case client.RoleAssistant:
			line := t.Content
			if summary := summarizeActions(t.Actions); summary != "" {
				line += "\n" + dim(summary)
			}
			blocks = append(blocks, line)
		default:
			blocks = append(blocks, muted.Render(t.Content))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// summarizeActions lists the tabs an answer opened.
func summarizeActions(acts []actions.Action) string {
	var opened []string
	for _, a := range acts {
		switch a := a.(type) {
		case *actions.OpenFile:
			opened = append(opened, a.Path)
		case *actions.OpenSheet:
			opened = append(opened, "sheet "+a.SheetID)
		case *actions.UpsertTab:
			opened = append(opened, a.Title)
		}
	}
	if len(opened) == 0 {
		return ""
	}
	return "opened: " + strings.Join(opened, ", ")
}

func renderContext(ctx client.Context) string {
	s := "role: " + ctx.Role
	if ctx.Outcome90 != "" {
		s += " · 90-day outcome: " + ctx.Outcome90
	}
	if len(ctx.Constraints) > 0 {
		s += " · constraints: " + strings.Join(ctx.Constraints, ", ")
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
