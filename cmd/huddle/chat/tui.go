package chatcmder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/huddle/pkg/cliui"
	"github.com/papercomputeco/huddle/pkg/conversation"
	"github.com/papercomputeco/huddle/pkg/llm"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	copiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	inputStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// chrome is the number of rows taken by everything but the transcript:
// title, input box (3) and help.
const chrome = 5

type chatKeyMap struct {
	Send       key.Binding
	Copy       key.Binding
	Clear      key.Binding
	Dismiss    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func (k chatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Copy, k.Clear, k.Dismiss, k.ScrollUp, k.ScrollDown, k.Quit}
}

func (k chatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Send, k.Copy, k.Clear}, {k.Dismiss, k.ScrollUp, k.ScrollDown, k.Quit}}
}

func defaultKeyMap() chatKeyMap {
	return chatKeyMap{
		Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy reply")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// viewChangedMsg is sent when the conversation changes in the background:
// a reply settled or a copy marker was set or reset.
type viewChangedMsg struct{}

type chatModel struct {
	ctx   context.Context
	view  *conversation.View
	msgs  conversation.Messages
	model string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     chatKeyMap

	width  int
	height int
	status string

	// rendered caches markdown output per turn id for the current width.
	rendered map[string]string
}

func (c *chatCommander) runTUI(ctx context.Context) error {
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
	lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())

	var program *tea.Program
	view := c.newView(func() {
		program.Send(viewChangedMsg{})
	})
	defer view.Close()

	program = tea.NewProgram(newChatModel(ctx, view, c.modelName()),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newChatModel(ctx context.Context, view *conversation.View, model string) chatModel {
	msgs := view.Messages()

	ti := textinput.New()
	ti.Placeholder = msgs.Empty
	ti.Prompt = "> "
	ti.PromptStyle = cliui.UserStyle
	ti.CharLimit = 8192
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cliui.AssistantStyle

	return chatModel{
		ctx:      ctx,
		view:     view,
		msgs:     msgs,
		model:    model,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeyMap(),
		rendered: map[string]string{},
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != m.width {
			m.rendered = map[string]string{}
		}
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.viewport.Width = msg.Width
		m.viewport.Height = m.transcriptHeight()
		m.refresh(true)
		return m, nil

	case viewChangedMsg:
		m.viewport.Height = m.transcriptHeight()
		m.refresh(true)
		return m, nil

	case spinner.TickMsg:
		if !m.view.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh(false)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		return m.send()

	case key.Matches(msg, m.keys.Copy):
		m.status = ""
		reply, ok := m.view.LastReply()
		if !ok {
			m.status = "Nothing to copy yet"
		} else if err := m.view.Copy(reply.ID); err != nil {
			m.status = err.Error()
		}
		m.viewport.Height = m.transcriptHeight()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.view.Clear()
		m.status = ""
		m.rendered = map[string]string{}
		m.viewport.Height = m.transcriptHeight()
		m.refresh(true)
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.view.DismissBanner()
		m.status = ""
		m.viewport.Height = m.transcriptHeight()
		m.refresh(false)
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) send() (tea.Model, tea.Cmd) {
	_, err := m.view.Submit(m.ctx, m.input.Value())
	switch {
	case errors.Is(err, conversation.ErrEmptyInput):
		return m, nil
	case err != nil:
		m.status = err.Error()
		m.viewport.Height = m.transcriptHeight()
		return m, nil
	}

	m.status = ""
	m.input.Reset()
	m.viewport.Height = m.transcriptHeight()
	m.refresh(true)
	return m, m.spinner.Tick
}

// transcriptHeight is what is left for the viewport once the fixed rows and
// the optional banner and status lines are laid out.
func (m chatModel) transcriptHeight() int {
	h := m.height - chrome
	if m.view.Banner() != "" {
		h--
	}
	if m.status != "" {
		h--
	}
	return max(h, 1)
}

// refresh re-renders the transcript into the viewport, optionally scrolling to
// the newest turn.
func (m *chatModel) refresh(bottom bool) {
	m.viewport.SetContent(m.renderTranscript(m.view.Snapshot()))
	if bottom {
		m.viewport.GotoBottom()
	}
}

func (m chatModel) renderTranscript(snap conversation.Snapshot) string {
	if len(snap.Turns) == 0 {
		return "\n  " + cliui.DimStyle.Render(m.msgs.Empty)
	}

	width := max(m.width-2, 20)
	var b strings.Builder
	for _, t := range snap.Turns {
		b.WriteString(m.renderHeader(t, snap.CopiedID == t.ID))
		b.WriteString("\n")
		b.WriteString(m.renderBody(t, width))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m chatModel) renderHeader(t conversation.DisplayTurn, copied bool) string {
	label := cliui.UserStyle.Render("you")
	if t.Role == llm.RoleAssistant {
		label = cliui.AssistantStyle.Render("assistant")
	}

	header := fmt.Sprintf("%s %s", label, cliui.DimStyle.Render(t.CreatedAt.Format("15:04")))
	if copied {
		header += " " + copiedStyle.Render(cliui.SuccessMark+" "+m.msgs.Copied)
	}
	return header
}

func (m chatModel) renderBody(t conversation.DisplayTurn, width int) string {
	switch {
	case t.Pending:
		return m.spinner.View() + " " + cliui.DimStyle.Render(m.msgs.Pending)
	case t.Failed:
		return cliui.ErrorStyle.Render(t.Content)
	case t.Role == llm.RoleUser:
		return lipgloss.NewStyle().Width(width).Render(t.Content)
	}

	if out, ok := m.rendered[t.ID]; ok {
		return out
	}
	out, _ := cliui.RenderMarkdown(t.Content, width)
	out = strings.Trim(out, "\n")
	m.rendered[t.ID] = out
	return out
}

func (m chatModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("huddle"))
	b.WriteString(" ")
	b.WriteString(cliui.DimStyle.Render(m.model))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if banner := m.view.Banner(); banner != "" {
		text := cliui.Truncate(banner, max(m.width-4, 10))
		b.WriteString(cliui.BannerStyle.Render(text))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(cliui.ErrorStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(inputStyle.Width(max(m.width-2, 10)).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(cliui.DimStyle.Render(m.help.View(m.keys)))

	return b.String()
}
