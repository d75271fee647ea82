// internal/tui/chat.go
// Package tui provides the interactive chat interface for querying an
// indexed contract.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/covenant/internal/appconfig"
	"github.com/mwiater/covenant/internal/contract"
	"github.com/mwiater/covenant/internal/util"
)

// Answerer is the TUI-facing subset of the pipeline.
type Answerer interface {
	Answer(ctx context.Context, query contract.Query) (contract.Answer, error)
}

// turn is one question and its validated answer (or failure).
type turn struct {
	question string
	answer   contract.Answer
	err      error
}

// answerMsg carries a completed pipeline run back into the event loop.
type answerMsg struct {
	question string
	answer   contract.Answer
}

// answerErr carries a failed pipeline run back into the event loop.
type answerErr struct {
	question string
	err      error
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle  = lipgloss.NewStyle().Bold(true)
	citationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Model is the Bubble Tea model for the contract chat session.
type Model struct {
	ctx       context.Context
	service   Answerer
	topK      int
	input     textarea.Model
	viewport  viewport.Model
	spinner   spinner.Model
	turns     []turn
	status    string
	isLoading bool
	ready     bool
	width     int
}

// NewModel creates a chat model over the given pipeline.
func NewModel(ctx context.Context, service Answerer, cfg *appconfig.Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ta := textarea.New()
	ta.Placeholder = "Ask about the contract..."
	ta.Prompt = "? "
	ta.Focus()
	ta.ShowLineNumbers = false
	ta.CharLimit = -1
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	topK := 5
	if cfg != nil {
		topK = cfg.EvidenceTopK()
	}

	return Model{
		ctx:      ctx,
		service:  service,
		topK:     topK,
		input:    ta,
		viewport: viewport.New(0, 0),
		spinner:  s,
		status:   "Index loaded. Ask a question.",
	}
}

// askCmd runs the query pipeline off the event loop.
func askCmd(ctx context.Context, service Answerer, question string, topK int) tea.Cmd {
	return func() tea.Msg {
		answer, err := service.Answer(ctx, contract.Query{Text: question, TopK: topK})
		if err != nil {
			return answerErr{question: question, err: err}
		}
		return answerMsg{question: question, answer: answer}
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textarea.Blink }

// Update handles key, window, and pipeline-result events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, ih := inputBoxStyle.GetFrameSize()
		vh := msg.Height - ih - 3
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTurns())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.isLoading {
				return m, nil
			}
			m.input.Reset()
			m.isLoading = true
			m.status = "Thinking..."
			return m, tea.Batch(m.spinner.Tick, askCmd(m.ctx, m.service, question, m.topK))
		}

	case answerMsg:
		m.isLoading = false
		m.turns = append(m.turns, turn{question: msg.question, answer: msg.answer})
		m.status = fmt.Sprintf("Answered with %d supporting clauses.", len(msg.answer.SupportingClauses))
		m.viewport.SetContent(m.renderTurns())
		m.viewport.GotoBottom()
		return m, nil

	case answerErr:
		m.isLoading = false
		m.turns = append(m.turns, turn{question: msg.question, err: msg.err})
		m.status = "Query failed."
		m.viewport.SetContent(m.renderTurns())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the chat transcript, input box, and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	status := m.status
	if m.isLoading {
		status = m.spinner.View() + " " + status
	}
	return m.viewport.View() + "\n" + inputBoxStyle.Render(m.input.View()) + "\n" + statusStyle.Render(status)
}

// renderTurns formats the full transcript for the viewport.
func (m Model) renderTurns() string {
	if len(m.turns) == 0 {
		return "No questions asked yet."
	}

	width := m.width
	if width < 20 {
		width = 80
	}

	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(questionStyle.Render("? "+t.question) + "\n\n")

		if t.err != nil {
			b.WriteString(errorStyle.Render(util.WrapToWidth(t.err.Error(), width)) + "\n")
			continue
		}

		b.WriteString(util.WrapToWidth(t.answer.Summary, width) + "\n")
		writeSection(&b, "Obligations", t.answer.Obligations, width)
		writeSection(&b, "Penalties", t.answer.Penalties, width)
		writeSection(&b, "Risks", t.answer.Risks, width)

		if len(t.answer.SupportingClauses) > 0 {
			b.WriteString("\n" + sectionStyle.Render("Supporting clauses:") + "\n")
			for _, ref := range t.answer.SupportingClauses {
				text := util.TruncateRunes(ref.Text, 160)
				b.WriteString(citationStyle.Render(fmt.Sprintf("  [%s]", ref.ID)) + " " + text + "\n")
			}
		}
	}
	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string, width int) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + sectionStyle.Render(title+":") + "\n")
	for _, item := range items {
		b.WriteString(util.WrapToWidth("  - "+item, width) + "\n")
	}
}

// Start runs the chat program until the user quits.
func Start(ctx context.Context, service Answerer, cfg *appconfig.Config) error {
	p := tea.NewProgram(NewModel(ctx, service, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
