package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arbortools/arbor/pkg/drag"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	savingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func (m Model) View() string {
	if m.help.ShowAll {
		return m.help.View(m.keys)
	}

	header := headerStyle.Render("Arbor — tree editor")
	if m.ctrl != nil && m.ctrl.Phase() != drag.Idle {
		header += statusStyle.Render("  [dragging]")
	}

	viewportHeight := m.height - headerHeight - 2
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	start := m.scroll
	end := start + viewportHeight
	if end > len(m.lines) {
		end = len(m.lines)
	}

	rows := make([]string, 0, viewportHeight)
	for i := start; i < end; i++ {
		rows = append(rows, m.lines[i].Text)
	}
	if len(rows) == 0 {
		rows = append(rows, "(empty tree — seed it with `arbor init --seed`)")
	}

	// The dragged row floats at the pointer, outside normal flow.
	if d := m.ctrl.Dragged(); d != nil {
		if ok, _, y := d.Element().Floating(); ok {
			row := y - headerHeight - start
			if row >= 0 && row < len(rows) {
				rows[row] = d.FloatingRow(m.width)
			}
		}
	}

	status := m.status
	if m.saving {
		status = savingStyle.Render(m.status)
	} else if status != "" {
		status = statusStyle.Render(status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		strings.Join(rows, "\n"),
		"",
		status,
		m.help.View(m.keys),
	)
}
