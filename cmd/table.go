package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/viva/internal/ui/theme"
)

// report is a bordered table for command output. Columns listed in numeric
// are right-aligned.
type report struct {
	t       *table.Table
	numeric map[int]bool
}

func newReport(headers ...string) *report {
	r := &report{numeric: map[int]bool{}}
	r.t = table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.TableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := theme.TableCell
			if row == table.HeaderRow {
				s = theme.TableHeader
			}
			if r.numeric[col] {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	return r
}

func (r *report) alignRight(cols ...int) *report {
	for _, c := range cols {
		r.numeric[c] = true
	}
	return r
}

func (r *report) row(cells ...any) {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprint(c)
	}
	r.t.Row(out...)
}

func (r *report) print(w io.Writer) {
	lipgloss.Fprintln(w, r.t.Render())
}

func okMark(success bool) string {
	if success {
		return "✓"
	}
	return "✗"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
