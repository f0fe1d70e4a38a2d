package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/viva/internal/ui/theme"
)

// Smallest terminal the frame is drawn in.
const (
	MinWidth  = 50
	MinHeight = 12
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Frame is the chrome around a full-screen view: a header bar with a title
// and status segments, and a footer bar of key hints.
type Frame struct {
	Title  string
	Status []string
	Hints  []KeyHint
}

// Render draws the frame at width x height. body is called with the number
// of lines left between the bars. Below MinWidth x MinHeight only a resize
// notice is drawn.
func (f Frame) Render(width, height int, body func(lines int) string) string {
	if width < MinWidth || height < MinHeight {
		return tooSmall(width, height)
	}

	header := f.header(width)
	footer := f.footer(width)
	lines := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := lipgloss.NewStyle().
		Width(width).
		Height(lines).
		MaxHeight(lines).
		Render(body(lines))
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (f Frame) header(width int) string {
	title := theme.Title.Render("  " + f.Title)
	status := strings.Join(f.Status, theme.StatusLabel.Render("  ·  "))
	gap := max(width-4-lipgloss.Width(title)-lipgloss.Width(status), 1)
	return theme.Bar.Width(width).Render(title + strings.Repeat(" ", gap) + status)
}

func (f Frame) footer(width int) string {
	hints := make([]string, len(f.Hints))
	for i, h := range f.Hints {
		hints[i] = theme.HintKey.Render(h.Key) + " " + theme.HintText.Render(h.Description)
	}
	return theme.Bar.Width(width).Render("  " + strings.Join(hints, "   "))
}

func tooSmall(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf("Terminal too small.\n\nNeed %d x %d, have %d x %d.",
			MinWidth, MinHeight, width, height))
}
