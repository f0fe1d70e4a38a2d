package chatui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/viva/internal/session"
	"github.com/abhisek/viva/internal/ui/layout"
	"github.com/abhisek/viva/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the whole frame at the current window size. The input takes
// the last line of the content area, with a spacer above.
func (m Model) render() string {
	frame := layout.Frame{Title: "Viva", Status: m.statusSegments(), Hints: keyHints}
	return frame.Render(m.width, m.height, func(lines int) string {
		return m.renderTranscript(max(lines-2, 0)) + "\n\n" + m.input.View()
	})
}

var keyHints = []layout.KeyHint{
	{Key: "Enter", Description: "Send"},
	{Key: "PgUp/PgDn", Description: "Scroll"},
	{Key: "Esc", Description: "Clear"},
	{Key: "Ctrl+C", Description: "Quit"},
}

// statusSegments renders mode, topic, rate and, in a quiz, the score.
func (m Model) statusSegments() []string {
	st := m.status
	segs := []string{theme.ModeBadge.Render(string(st.Mode))}
	if st.Topic != nil {
		segs = append(segs, theme.StatusLabel.Render("topic ")+theme.StatusValue.Render(*st.Topic))
	}
	segs = append(segs, theme.StatusLabel.Render("rate ")+theme.StatusValue.Render(fmt.Sprintf("%gx", st.Rate)))
	if st.Mode == session.ModeQuiz {
		segs = append(segs, theme.StatusLabel.Render("score ")+
			theme.StatusValue.Render(fmt.Sprintf("%d/%d", st.QuizScore, st.QuizTotal)))
	}
	segs = append(segs, theme.StatusLabel.Render(st.Lang.String()))
	return segs
}

func (m Model) transcriptHeight() int {
	return max(m.height-8, 1)
}

// renderTranscript returns the last height lines of the wrapped transcript,
// shifted up by the scroll offset.
func (m Model) renderTranscript(height int) string {
	if height == 0 {
		return ""
	}

	lines := m.transcriptLines(max(m.width-2, 10))
	if m.pending {
		lines = append(lines, theme.Hint.Render("thinking..."))
	}
	if len(lines) == 0 {
		lines = []string{theme.Hint.Render("Say 'teach me about <topic>' to start.")}
	}

	end := len(lines) - min(m.scroll, max(len(lines)-height, 0))
	start := max(end-height, 0)
	return strings.Join(lines[start:end], "\n")
}

func (m Model) transcriptLines(width int) []string {
	var lines []string
	for i, e := range m.entries {
		if i > 0 {
			lines = append(lines, "")
		}

		var label string
		body := theme.Body
		switch e.role {
		case roleUser:
			label = theme.UserLabel.Render("you")
		case roleTutor:
			label = theme.TutorLabel.Render("viva")
		case roleFailed:
			label = theme.TutorLabel.Render("viva")
			body = theme.Failed
		}
		lines = append(lines, label)

		wrapped := lipgloss.NewStyle().Width(width).Render(e.text)
		for _, l := range strings.Split(wrapped, "\n") {
			lines = append(lines, body.Render(l))
		}
	}
	return lines
}
