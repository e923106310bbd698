package view

import (
	"fmt"

	"github.com/arbortools/arbor/pkg/content"
	"github.com/arbortools/arbor/pkg/tree"
)

// View is the projection of a single node: its own shell element, a content
// slot, and a children box mirroring the node's collection. Construction
// registers the view in the context; Close releases everything it owns.
type View struct {
	ctx  *Context
	node *tree.Node

	el        *Element
	contentEl *Element
	childBox  *Element

	contentView content.View
	targets     []*Element

	closed      bool
	disconnects []func()
}

// NewRoot projects the whole tree rooted at root and returns its view.
// The root node's empty id makes it the resolution target for nodes whose
// parent_id is empty.
func NewRoot(ctx *Context, root *tree.Node) *View {
	v := newView(ctx, root)
	ctx.root = v
	return v
}

func newView(ctx *Context, node *tree.Node) *View {
	v := &View{ctx: ctx, node: node}
	v.el = newElement(KindShell, v)
	v.contentEl = newElement(KindContent, v)
	v.childBox = newElement(KindChildren, v)
	v.el.append(v.contentEl)
	v.el.append(v.childBox)
	ctx.register(v)

	v.disconnects = append(v.disconnects,
		node.Repositioned.Connect(func(ev tree.Reposition) { reposition(ctx, ev) }),
		node.ContentLoaded.Connect(v.onContentLoaded),
		node.Destroyed.Connect(func(*tree.Node) { v.Close() }),
	)
	v.bindChildren()
	ctx.requestHydration(node)
	return v
}

// Node returns the projected node.
func (v *View) Node() *tree.Node { return v.node }

// Element returns the view's shell element.
func (v *View) Element() *Element { return v.el }

// Closed reports whether the view has been torn down.
func (v *View) Closed() bool { return v.closed }

// ContentView returns the mounted content view, nil until hydration.
func (v *View) ContentView() content.View { return v.contentView }

func (v *View) bindChildren() {
	col := v.node.Children()
	v.disconnects = append(v.disconnects,
		col.Signals.Added.Connect(v.onChildAdded),
		col.Signals.Removed.Connect(v.onChildRemoved),
		col.Signals.Reset.Connect(func(*tree.Collection) { v.rebuildChildren() }),
	)
	v.rebuildChildren()
}

// rebuildChildren discards and re-creates every child view. Only collection
// resets take this path; single additions position exactly one view.
func (v *View) rebuildChildren() {
	for _, el := range v.childBox.Children() {
		if el.kind == KindShell && el.view != nil {
			el.view.Close()
		} else {
			el.detach()
		}
	}
	ordered, err := v.node.Children().InOrder()
	if err != nil {
		v.ctx.fail(fmt.Errorf("cannot project children of %q: %w", v.node.ID(), err))
		return
	}
	for _, child := range ordered {
		cv := newView(v.ctx, child)
		v.childBox.append(cv.el)
	}
}

// onChildAdded projects one new member. A node arriving from another
// collection keeps its existing view; its element is reattached, not
// rebuilt.
func (v *View) onChildAdded(n *tree.Node) {
	cv := v.ctx.FindByID(n.ID())
	if cv == nil {
		cv = newView(v.ctx, n)
	}
	v.placeChild(cv)
}

// onChildRemoved detaches the member's element. The view itself stays alive:
// a cross-collection move re-homes it, and destruction is signalled
// separately by the node.
func (v *View) onChildRemoved(n *tree.Node) {
	if cv := v.ctx.FindByID(n.ID()); cv != nil {
		cv.el.detach()
	}
}

// placeChild puts a child view's element where the child's left_id says it
// belongs: immediately after the left sibling's element, or first in the box
// when the left_id is empty. There is no fallback position: an unresolvable
// left sibling is a reference failure.
func (v *View) placeChild(cv *View) {
	leftID := cv.node.LeftID()
	cv.el.detach()
	if leftID == "" || leftID == cv.node.ID() {
		v.childBox.insertAt(0, cv.el)
		return
	}
	lv := v.ctx.FindByID(leftID)
	if lv == nil || lv.el.parent != v.childBox {
		v.ctx.fail(fmt.Errorf("%w: cannot place %s after %s under %s",
			tree.ErrUnknownLeft, cv.node.ID(), leftID, v.node.ID()))
		return
	}
	v.childBox.insertAfter(lv.el, cv.el)
}

func (v *View) onContentLoaded(c content.Content) {
	v.contentView = c.View()
}

// ChildViews returns the child views in element order, ignoring any drop
// targets between them.
func (v *View) ChildViews() []*View {
	var out []*View
	for _, el := range v.childBox.children {
		if el.kind == KindShell && el.view != nil {
			out = append(out, el.view)
		}
	}
	return out
}

// ShowDropTargets interleaves insertion placeholders with the children: one
// before the first child and one after each, so k children expose k+1
// targets and a target's even index maps to "insert before child index/2".
func (v *View) ShowDropTargets() {
	v.ClearDropTargets()
	shells := make([]*Element, 0, len(v.childBox.children))
	for _, el := range v.childBox.children {
		if el.kind == KindShell {
			shells = append(shells, el)
		}
	}
	first := v.newTarget()
	v.childBox.insertAt(0, first)
	for _, s := range shells {
		t := v.newTarget()
		v.childBox.insertAfter(s, t)
	}
}

// ClearDropTargets removes this view's placeholders and their index entries.
func (v *View) ClearDropTargets() {
	for _, t := range v.targets {
		t.detach()
		delete(v.ctx.byElem, t)
	}
	v.targets = nil
}

func (v *View) newTarget() *Element {
	t := newElement(KindDropTarget, v)
	v.targets = append(v.targets, t)
	v.ctx.byElem[t] = v
	return t
}

// Close tears the view down: signal handlers disconnected, child views
// closed, drop targets cleared, index entries removed, element detached.
// Every exit path, including an ancestor's close, funnels through here.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	for _, d := range v.disconnects {
		d()
	}
	v.disconnects = nil
	for _, cv := range v.ChildViews() {
		cv.Close()
	}
	v.ClearDropTargets()
	v.ctx.deregister(v)
	v.el.detach()
}
