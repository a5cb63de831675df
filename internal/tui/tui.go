package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resume-rag/internal/rag"
	"resume-rag/internal/session"
)

var (
	chatBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	asstLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	unansweredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// streamEvent carries pipeline output from the answering goroutine
// into the Bubble Tea event loop. Exactly one of the fields is set.
type streamEvent struct {
	fragment string
	answer   *rag.Answer
	err      error
}

type streamEventMsg streamEvent

// Model is the Bubble Tea model for the chat surface: a transcript
// viewport, a question input, and an unanswered-questions panel.
type Model struct {
	pipeline *rag.Pipeline
	sess     *session.Session
	persona  string

	input    textinput.Model
	viewport viewport.Model
	events   chan streamEvent

	streaming string
	status    string
	busy      bool
	ready     bool
	width     int
}

func New(pipeline *rag.Pipeline, sess *session.Session, persona string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about skills, projects, experience..."
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		pipeline: pipeline,
		sess:     sess,
		persona:  persona,
		input:    ti,
		viewport: vp,
		status:   "Ready. Enter sends, ctrl+l clears the chat, ctrl+c quits.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + ih + 1 + 1 + ch // header, input frame, input, status, chat frame
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyCtrlL:
			// user-initiated reset, no confirmation
			m.sess.Clear()
			m.streaming = ""
			m.status = "Chat cleared."
			m.viewport.SetContent(m.renderTranscript())
			return m, nil
		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.busy {
				return m, nil
			}
			m.input.Reset()
			return m.submit(question)
		}

	case streamEventMsg:
		switch {
		case msg.err != nil:
			m.busy = false
			m.streaming = ""
			m.status = errorStyle.Render("Error answering that question: " + msg.err.Error())
			m.viewport.SetContent(m.renderTranscript())
			return m, drain(m.events)
		case msg.answer != nil:
			m.busy = false
			m.streaming = ""
			if msg.answer.Grounded {
				m.status = statusStyle.Render(fmt.Sprintf("Answered from %d source(s).", len(msg.answer.Sources)))
			} else {
				m.status = unansweredStyle.Render("No knowledge found for that one.")
			}
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, drain(m.events)
		default:
			m.streaming += msg.fragment
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, waitEvent(m.events)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s - AI Resume Assistant", m.persona))
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Width(max(20, m.width-2)).Render(m.input.View())

	parts := []string{header, chat}
	if panel := m.renderUnanswered(); panel != "" {
		parts = append(parts, panel)
	}
	parts = append(parts, input, m.status)
	return strings.Join(parts, "\n")
}

// submit starts one pipeline turn in a goroutine and begins pumping
// its stream events into the update loop.
func (m Model) submit(question string) (Model, tea.Cmd) {
	events := make(chan streamEvent, 16)
	m.events = events
	m.busy = true
	m.streaming = ""
	m.status = "Thinking..."
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()

	pipeline, sess := m.pipeline, m.sess
	go func() {
		answer, err := pipeline.Ask(context.Background(), sess, question, func(ctx context.Context, fragment string) error {
			events <- streamEvent{fragment: fragment}
			return nil
		})
		if err != nil {
			events <- streamEvent{err: err}
		} else {
			events <- streamEvent{answer: answer}
		}
		close(events)
	}()
	return m, waitEvent(events)
}

func waitEvent(events chan streamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return streamEventMsg(ev)
	}
}

// drain consumes whatever the answering goroutine still sends after a
// terminal event, so it never blocks on the channel.
func drain(events chan streamEvent) tea.Cmd {
	return func() tea.Msg {
		for range events {
		}
		return nil
	}
}

func (m Model) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(20, m.viewport.Width))

	var b strings.Builder
	for _, msg := range m.sess.Messages() {
		label := userLabelStyle.Render("You")
		if msg.Role == session.RoleAssistant {
			label = asstLabelStyle.Render(m.persona)
		}
		b.WriteString(label + "\n")
		b.WriteString(wrap.Render(msg.Content) + "\n\n")
	}
	if m.busy {
		b.WriteString(asstLabelStyle.Render(m.persona) + "\n")
		b.WriteString(wrap.Render(m.streaming+"▌") + "\n")
	}
	if b.Len() == 0 {
		return "Ask me anything about " + m.persona + "'s experience, skills, and projects."
	}
	return b.String()
}

func (m Model) renderUnanswered() string {
	questions := m.sess.Unanswered()
	if len(questions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(unansweredStyle.Render("Unanswered questions:"))
	for i, q := range questions {
		b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, q))
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
