package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arbortools/arbor/pkg/content"
)

const indentWidth = 2

var (
	handleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("140"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	placeholderStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	targetStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	floatingStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("63"))
)

// Line is one rendered row together with the element it came from, so mouse
// coordinates can be mapped back to views and drop targets.
type Line struct {
	El    *Element
	Text  string
	Depth int
}

// RenderLines flattens the projection into rows. Floating (dragged) shells
// are left out of the flow; the caller overlays them at pointer coordinates.
func (c *Context) RenderLines(width int) []Line {
	if c.root == nil {
		return nil
	}
	var out []Line
	c.root.render(&out, -1, width)
	return out
}

func (v *View) render(out *[]Line, depth, width int) {
	if v.el.floating {
		return
	}
	if v.node.ID() != "" {
		*out = append(*out, Line{El: v.el, Text: v.Row(depth, width), Depth: depth})
		if v.contentView != nil {
			pad := strings.Repeat(" ", (depth+1)*indentWidth)
			body := v.contentView.Render(max(width-len(pad), 8))
			for _, ln := range strings.Split(body, "\n") {
				*out = append(*out, Line{El: v.contentEl, Text: pad + ln, Depth: depth + 1})
			}
		}
	}
	for _, el := range v.childBox.children {
		switch el.kind {
		case KindDropTarget:
			pad := strings.Repeat(" ", (depth+1)*indentWidth)
			*out = append(*out, Line{El: el, Text: pad + targetStyle.Render("· · · · · · · ·"), Depth: depth + 1})
		case KindShell:
			if el.view != nil {
				el.view.render(out, depth+1, width)
			}
		}
	}
}

// Row renders the node's own line: drag handle, type label and title. Views
// render a placeholder-safe shell before content resolution completes.
func (v *View) Row(depth, width int) string {
	pad := strings.Repeat(" ", depth*indentWidth)
	handle := handleStyle.Render("≡ ")
	c := v.node.Content()
	if c == nil {
		return pad + handle + placeholderStyle.Render("(resolving content…)")
	}
	label := labelStyle.Render("[" + content.TypeLabel(c.TypeKey()) + "]")
	title := c.Title()
	if title == "" {
		title = "(untitled)"
	}
	return pad + handle + label + " " + titleStyle.Render(title)
}

// FloatingRow renders the dragged node's row in its pick-up style.
func (v *View) FloatingRow(width int) string {
	c := v.node.Content()
	title := "(resolving content…)"
	if c != nil {
		title = "[" + content.TypeLabel(c.TypeKey()) + "] " + c.Title()
	}
	return floatingStyle.Render("≡ " + title)
}
