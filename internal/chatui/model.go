// Package chatui is the terminal chat front end for the tutor.
package chatui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/viva/internal/i18n"
	"github.com/abhisek/viva/internal/session"
	"github.com/abhisek/viva/internal/tutor"
	"github.com/abhisek/viva/internal/ui/components"
)

const inputCharLimit = 2000

type role int

const (
	roleUser role = iota
	roleTutor
	roleFailed
)

type entry struct {
	role role
	text string
}

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	ctx     context.Context
	svc     *tutor.Service
	status  session.Status
	entries []entry
	input   components.TextInput
	pending bool
	// scroll is the number of lines scrolled up from the bottom.
	scroll int
	width  int
	height int
}

// New creates a chat model on a fresh session in lang.
func New(ctx context.Context, svc *tutor.Service, lang i18n.Lang) Model {
	return Model{
		ctx:    ctx,
		svc:    svc,
		status: svc.Create(lang),
		input:  components.NewTextInput("Ask, learn or say 'quiz'...", inputCharLimit),
	}
}

// SessionID returns the id of the session being chatted on.
func (m Model) SessionID() string {
	return m.status.ID
}

func (m Model) Init() tea.Cmd {
	return m.input.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(max(msg.Width-6, 10))
		return m, nil

	case turnDoneMsg:
		return m.handleTurnDone(msg), nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "pgup":
			m.scroll += max(m.transcriptHeight()/2, 1)
			return m, nil
		case "pgdown":
			m.scroll = max(m.scroll-max(m.transcriptHeight()/2, 1), 0)
			return m, nil
		case "esc":
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input as a turn unless one is already running.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" || m.pending {
		return m, nil
	}

	m.entries = append(m.entries, entry{role: roleUser, text: text})
	m.input.Reset()
	m.pending = true
	m.scroll = 0
	return m, m.runTurn(text)
}

func (m Model) runTurn(text string) tea.Cmd {
	ctx, svc, id := m.ctx, m.svc, m.status.ID
	return func() tea.Msg {
		out, err := svc.Turn(ctx, tutor.TurnInput{SessionID: id, Text: text})
		return turnDoneMsg{Out: out, Err: err}
	}
}

func (m Model) handleTurnDone(msg turnDoneMsg) Model {
	m.pending = false
	m.scroll = 0
	m.status = msg.Out.Status

	if msg.Err != nil {
		m.entries = append(m.entries, entry{
			role: roleFailed,
			text: i18n.Message(m.status.Lang, i18n.Error, nil),
		})
		return m
	}
	m.entries = append(m.entries, entry{role: roleTutor, text: msg.Out.Text})
	return m
}

// Run starts the chat program and blocks until the user quits.
func Run(ctx context.Context, svc *tutor.Service, lang i18n.Lang) error {
	p := tea.NewProgram(New(ctx, svc, lang), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
