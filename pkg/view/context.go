package view

import (
	"github.com/sirupsen/logrus"

	"github.com/arbortools/arbor/pkg/content"
	"github.com/arbortools/arbor/pkg/tree"
)

// Hydration is an outstanding content resolution the owning event loop must
// complete once the future resolves.
type Hydration struct {
	Node   *tree.Node
	Future *content.Future
}

// Context is the per-tree identity index shared by every view: node identity
// to view, and element to view. It is passed to each view at construction
// and entries live exactly as long as the view does — a Close deregisters on
// every exit path, so the index never points at a destroyed view.
type Context struct {
	registry *content.Registry
	log      *logrus.Logger

	root   *View
	byID   map[tree.ID]*View
	byElem map[*Element]*View

	pending []Hydration
	onError func(error)
}

// NewContext builds an empty context resolving content through reg.
func NewContext(reg *content.Registry, log *logrus.Logger) *Context {
	if log == nil {
		log = logrus.New()
	}
	c := &Context{
		registry: reg,
		log:      log,
		byID:     make(map[tree.ID]*View),
		byElem:   make(map[*Element]*View),
	}
	c.onError = func(err error) {
		c.log.WithError(err).Error("tree projection reference failure")
	}
	return c
}

// SetErrorHandler replaces the fatal-error hook. Reference errors have no
// fallback positioning, so they are routed here instead of being swallowed.
func (c *Context) SetErrorHandler(fn func(error)) {
	if fn != nil {
		c.onError = fn
	}
}

func (c *Context) fail(err error) {
	c.onError(err)
}

// Root returns the root view, nil before NewRoot.
func (c *Context) Root() *View { return c.root }

// FindByID returns the view projecting the node with the given identity.
// The empty id resolves to the root view.
func (c *Context) FindByID(id tree.ID) *View {
	return c.byID[id]
}

// FindByElement returns the view owning the given element.
func (c *Context) FindByElement(el *Element) *View {
	return c.byElem[el]
}

// Views returns every live view, unordered.
func (c *Context) Views() []*View {
	out := make([]*View, 0, len(c.byID))
	for _, v := range c.byID {
		out = append(out, v)
	}
	return out
}

func (c *Context) register(v *View) {
	c.byID[v.node.ID()] = v
	c.byElem[v.el] = v
	c.byElem[v.contentEl] = v
	c.byElem[v.childBox] = v
}

func (c *Context) deregister(v *View) {
	if c.byID[v.node.ID()] == v {
		delete(c.byID, v.node.ID())
	}
	delete(c.byElem, v.el)
	delete(c.byElem, v.contentEl)
	delete(c.byElem, v.childBox)
}

// requestHydration kicks off content resolution for a node and queues the
// outstanding future, if any, for the event loop to complete.
func (c *Context) requestHydration(n *tree.Node) {
	if c.registry == nil {
		return
	}
	if f := n.Hydrate(c.registry); f != nil {
		c.pending = append(c.pending, Hydration{Node: n, Future: f})
	}
}

// TakePending drains the queue of outstanding hydrations.
func (c *Context) TakePending() []Hydration {
	p := c.pending
	c.pending = nil
	return p
}

// ShowAllDropTargets renders insertion placeholders on every potential
// parent view while a drag is active. The dragged view and its descendants
// are excluded: a subtree cannot become its own destination.
func (c *Context) ShowAllDropTargets(dragged *View) {
	for _, v := range c.byID {
		if dragged != nil && (v == dragged || dragged.node.IsAncestorOf(v.node)) {
			continue
		}
		v.ShowDropTargets()
	}
}

// ClearAllDropTargets removes every placeholder in the tree. Sibling index
// arithmetic requires an uncluttered child list, so this runs before any
// drop commit resolves identities.
func (c *Context) ClearAllDropTargets() {
	for _, v := range c.byID {
		v.ClearDropTargets()
	}
}
