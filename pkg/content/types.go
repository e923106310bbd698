package content

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arbortools/arbor/pkg/models"
)

var (
	bodyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Background(lipgloss.Color("236"))
	doneStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("243"))

	titleCaser = cases.Title(language.English)
)

// TypeLabel formats a type key for display, e.g. "heading" -> "Heading".
func TypeLabel(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// Builtins returns a registry with the standard content types registered:
// text, heading, code and todo.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(Type{Key: "text", New: newText})
	r.Register(Type{Key: "heading", New: newHeading})
	r.Register(Type{Key: "code", New: newCode})
	r.Register(Type{Key: "todo", New: newTodo})
	return r
}

// Text is a plain paragraph.
type Text struct {
	Body string
}

func newText(raw models.RawContent) (Content, error) {
	return &Text{Body: raw.String("body")}, nil
}

func (t *Text) TypeKey() string { return "text" }
func (t *Text) Title() string   { return firstLine(t.Body) }
func (t *Text) View() View      { return &textView{content: t} }

type textView struct {
	content *Text
}

func (v *textView) Render(width int) string {
	return bodyStyle.Width(width).Render(v.content.Body)
}

// Heading is a section title with a level between 1 and 6.
type Heading struct {
	Text  string
	Level int
}

func newHeading(raw models.RawContent) (Content, error) {
	level := 1
	if l, ok := raw["level"].(float64); ok {
		level = int(l)
	} else if l, ok := raw["level"].(int); ok {
		level = l
	}
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("heading level %d out of range", level)
	}
	return &Heading{Text: raw.String("text"), Level: level}, nil
}

func (h *Heading) TypeKey() string { return "heading" }
func (h *Heading) Title() string   { return h.Text }
func (h *Heading) View() View      { return &headingView{content: h} }

type headingView struct {
	content *Heading
}

func (v *headingView) Render(width int) string {
	prefix := strings.Repeat("#", v.content.Level)
	return headingStyle.Width(width).Render(prefix + " " + v.content.Text)
}

// Code is a fenced source snippet.
type Code struct {
	Source   string
	Language string
}

func newCode(raw models.RawContent) (Content, error) {
	return &Code{Source: raw.String("source"), Language: raw.String("language")}, nil
}

func (c *Code) TypeKey() string { return "code" }
func (c *Code) Title() string   { return firstLine(c.Source) }
func (c *Code) View() View      { return &codeView{content: c} }

type codeView struct {
	content *Code
}

func (v *codeView) Render(width int) string {
	return codeStyle.Width(width).Render(v.content.Source)
}

// Todo is a checkable task line.
type Todo struct {
	Text string
	Done bool
}

func newTodo(raw models.RawContent) (Content, error) {
	done, _ := raw["done"].(bool)
	return &Todo{Text: raw.String("text"), Done: done}, nil
}

func (t *Todo) TypeKey() string { return "todo" }
func (t *Todo) Title() string   { return t.Text }
func (t *Todo) View() View      { return &todoView{content: t} }

type todoView struct {
	content *Todo
}

func (v *todoView) Render(width int) string {
	box := "[ ] "
	style := bodyStyle
	if v.content.Done {
		box = "[x] "
		style = doneStyle
	}
	return style.Width(width).Render(box + v.content.Text)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	const max = 48
	if len(s) > max {
		return s[:max-1] + "…"
	}
	return s
}
