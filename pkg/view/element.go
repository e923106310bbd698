// Package view projects the structural tree into a renderable element
// hierarchy and keeps that projection synchronized with the model's signals.
package view

// ElementKind distinguishes the element roles inside a node's projection.
type ElementKind int

const (
	// KindShell is a node's own row plus everything under it.
	KindShell ElementKind = iota
	// KindContent is the slot the rendered content view mounts into.
	KindContent
	// KindChildren is the container holding child shells and, during a
	// drag, the interleaved drop targets.
	KindChildren
	// KindDropTarget is a transient insertion-point placeholder.
	KindDropTarget
)

// Element is a node in the render hierarchy. Structural relocation moves
// elements between parents; rendering walks them in order.
type Element struct {
	kind     ElementKind
	view     *View
	parent   *Element
	children []*Element

	floating bool
	x, y     int
}

func newElement(kind ElementKind, v *View) *Element {
	return &Element{kind: kind, view: v}
}

// Kind reports the element's role.
func (e *Element) Kind() ElementKind { return e.kind }

// View returns the view owning this element.
func (e *Element) View() *View { return e.view }

// Parent returns the containing element, nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the child elements in order. The slice is a copy.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// Index returns the position of child under e, or -1.
func (e *Element) Index(child *Element) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (e *Element) append(c *Element) {
	c.detach()
	c.parent = e
	e.children = append(e.children, c)
}

func (e *Element) insertAt(i int, c *Element) {
	c.detach()
	c.parent = e
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = c
}

// insertAfter places c immediately after ref, which must be a child of e.
func (e *Element) insertAfter(ref, c *Element) bool {
	i := e.Index(ref)
	if i < 0 {
		return false
	}
	e.insertAt(i+1, c)
	return true
}

// detach removes e from its parent. Detaching a loose element is a no-op.
func (e *Element) detach() {
	if e.parent == nil {
		return
	}
	p := e.parent
	for i, c := range p.children {
		if c == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// SetFloating takes the element out of normal flow and pins it to pointer
// coordinates, mirroring the absolutely-positioned mouse-following mode.
func (e *Element) SetFloating(x, y int) {
	e.floating = true
	e.x, e.y = x, y
}

// ClearFloating restores static positioning.
func (e *Element) ClearFloating() {
	e.floating = false
}

// Floating reports whether the element follows the pointer, and where.
func (e *Element) Floating() (bool, int, int) {
	return e.floating, e.x, e.y
}
