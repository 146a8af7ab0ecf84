package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rulebot/internal/domain"
	"rulebot/internal/repl"
)

// AssistantPort is the TUI-facing subset of the assistant.
type AssistantPort interface {
	Converse(ctx context.Context, sessionID, question string) (*domain.TurnResult, error)
}

type turn struct {
	question string
	answer   string
	sources  []domain.Chunk
	err      error
}

// Model is the Bubble Tea model for the conversational assistant. Each
// submitted question runs the full pipeline synchronously; a failed turn
// lands in the transcript and the loop continues.
type Model struct {
	service AssistantPort
	session string
	input   textinput.Model
	view    viewport.Model
	turns   []turn
	summary string
	status  string
	ready   bool
}

// New creates a chat model bound to one session for the process lifetime.
func New(service AssistantPort, sessionID, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about NFL rules, or type 'quit' to exit"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service: service,
		session: sessionID,
		input:   ti,
		view:    vp,
		summary: summary,
		status:  "Corpus loaded. Ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameH := chatBoxStyle.GetFrameSize()
		_, inputH := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + inputH + 1 // header+summary, status, input frame, spacer
		vh := msg.Height - reserved - frameH
		if vh < 3 {
			vh = 3
		}
		m.view.Width = max(20, msg.Width)
		m.view.Height = vh
		m.view.SetContent(m.renderTranscript())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			if repl.IsExitCommand(question) {
				return m, tea.Quit
			}
			m.input.Reset()
			result, err := m.service.Converse(context.Background(), m.session, question)
			if err != nil {
				m.turns = append(m.turns, turn{question: question, err: err})
				m.status = "Error: " + err.Error()
			} else {
				m.turns = append(m.turns, turn{question: question, answer: result.Answer, sources: result.Chunks})
				m.status = fmt.Sprintf("Answered from %d chunks", len(result.Chunks))
			}
			m.view.SetContent(m.renderTranscript())
			m.view.GotoBottom()
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.view, cmd = m.view.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("NFL Rule Assistant")
	summary := summaryStyle.Render(m.summary)
	transcript := chatBoxStyle.Render(m.view.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "No questions yet."
	}
	var sb strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(questionStyle.Render("You: " + t.question))
		sb.WriteString("\n")
		if t.err != nil {
			sb.WriteString(errorStyle.Render("Error: " + t.err.Error()))
			continue
		}
		sb.WriteString("Assistant: " + t.answer)
		if len(t.sources) > 0 {
			sb.WriteString("\n")
			sb.WriteString(sourceStyle.Render("sources: " + sourceLine(t.sources)))
		}
	}
	return sb.String()
}

func sourceLine(chunks []domain.Chunk) string {
	seen := make(map[string]struct{}, len(chunks))
	var names []string
	for _, ch := range chunks {
		if _, ok := seen[ch.Filename]; ok {
			continue
		}
		seen[ch.Filename] = struct{}{}
		names = append(names, ch.Filename)
	}
	return strings.Join(names, ", ")
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
