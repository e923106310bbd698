// Package tree implements the structural model of the editable page tree:
// nodes that know their parent and left sibling, live child collections, and
// the signals that drive the view projection.
//
// Structural order inside a sibling group is authoritative in left_id, not in
// collection order: a node's left_id names its visual predecessor, and the
// empty id marks the leftmost sibling.
package tree

import (
	"fmt"

	"github.com/arbortools/arbor/pkg/content"
	"github.com/arbortools/arbor/pkg/models"
	"github.com/arbortools/arbor/pkg/signal"
)

// ID identifies a node. The empty ID means "no reference": an empty parent
// puts a node at the root, an empty left makes it the leftmost sibling.
type ID string

// Reposition announces a committed structural move. Handlers observe the
// node's already-updated attributes.
type Reposition struct {
	Node     *Node
	ParentID ID
	LeftID   ID
}

// Node is a single structural tree entity. Its children are always a live
// Collection, never a plain slice, and its content payload is hydrated
// lazily through the content registry.
type Node struct {
	id       ID
	parentID ID
	leftID   ID

	children *Collection
	owner    *Collection

	content content.Content
	raw     models.RawContent
	pending *content.Future

	// Repositioned fires when parent_id changes, or when left_id changes
	// to something other than the node's own id. It is the sole trigger
	// for structural re-layout.
	Repositioned signal.Signal[Reposition]
	// ContentLoaded fires each time hydration completes, carrying the
	// instantiated content.
	ContentLoaded signal.Signal[content.Content]
	// Destroyed fires once when the node is removed from the tree for good.
	Destroyed signal.Signal[*Node]
}

// NewNode builds a node from its persisted structural record. Children are
// not attached here; see Build.
func NewNode(rec models.NodeRecord) *Node {
	n := &Node{
		id:       ID(rec.ID),
		parentID: ID(rec.ParentID),
		leftID:   ID(rec.LeftID),
		raw:      rec.Content,
	}
	n.children = NewCollection(n)
	return n
}

func (n *Node) ID() ID       { return n.id }
func (n *Node) ParentID() ID { return n.parentID }
func (n *Node) LeftID() ID   { return n.leftID }

// Children returns the node's live child collection, never nil.
func (n *Node) Children() *Collection { return n.children }

// Owner returns the collection the node currently belongs to, or nil when
// the node is detached (a root node, or mid-move).
func (n *Node) Owner() *Collection { return n.owner }

// Parent returns the node owning the collection this node belongs to.
func (n *Node) Parent() *Node {
	if n.owner == nil {
		return nil
	}
	return n.owner.owner
}

// IsAncestorOf reports whether m sits somewhere below n.
func (n *Node) IsAncestorOf(m *Node) bool {
	for cur := m.Parent(); cur != nil; cur = cur.Parent() {
		if cur == n {
			return true
		}
	}
	return false
}

// SetChildren replaces the structural children with a fresh collection built
// from list, claiming each node from any previous owner.
func (n *Node) SetChildren(list []*Node) {
	n.children = NewCollection(n)
	for _, c := range list {
		n.children.Add(c)
	}
}

// CommitStructure writes the node's structural attributes and fires
// Repositioned when the change is an actual move: the parent changed, or the
// left sibling changed to an identity other than the node's own (a left_id
// equal to the node's id is a persisted no-op and must not trigger layout).
func (n *Node) CommitStructure(parentID, leftID ID) {
	parentChanged := parentID != n.parentID
	leftChanged := leftID != n.leftID
	n.parentID = parentID
	n.leftID = leftID
	if parentChanged || (leftChanged && leftID != n.id) {
		n.Repositioned.Emit(Reposition{Node: n, ParentID: parentID, LeftID: leftID})
	}
}

// Content returns the hydrated content instance, or nil before hydration.
func (n *Node) Content() content.Content { return n.content }

// SetContent replaces the node's payload with a raw descriptor. The previous
// instance is dropped and the next Hydrate resolves the new type key.
func (n *Node) SetContent(raw models.RawContent) {
	n.content = nil
	n.pending = nil
	n.raw = raw
}

// Hydrate makes sure the node's content is, or is becoming, instantiated.
// Already-instantiated content re-emits ContentLoaded immediately and
// resolves nothing, which makes redundant hydration calls safe. For a raw
// payload the type key is resolved through reg exactly once; the returned
// future is non-nil while that resolution is outstanding, and the caller's
// event loop must invoke CompleteHydration once it resolves.
func (n *Node) Hydrate(reg *content.Registry) *content.Future {
	if n.content != nil {
		n.ContentLoaded.Emit(n.content)
		return nil
	}
	if n.raw == nil {
		return nil
	}
	if n.pending == nil {
		n.pending = reg.Resolve(n.raw.TypeKey())
	}
	return n.pending
}

// CompleteHydration instantiates the content once its type future has
// resolved, stores it and emits ContentLoaded. Call it from the event loop
// that owns the tree; it must not race Hydrate.
func (n *Node) CompleteHydration() error {
	if n.pending == nil {
		return nil
	}
	typ, err := n.pending.Result()
	n.pending = nil
	if err != nil {
		return fmt.Errorf("node %s: content resolution failed: %w", n.id, err)
	}
	c, err := typ.New(n.raw)
	if err != nil {
		return fmt.Errorf("node %s: content %q rejected payload: %w", n.id, typ.Key, err)
	}
	n.content = c
	n.raw = nil
	n.ContentLoaded.Emit(c)
	return nil
}

// Destroy removes the node and its subtree from the tree. Descendants are
// destroyed first so their views release index entries before the ancestor's
// own teardown runs.
func (n *Node) Destroy() {
	for _, c := range n.children.Nodes() {
		c.Destroy()
	}
	if n.owner != nil {
		n.owner.Remove(n)
	}
	n.Destroyed.Emit(n)
}

// Find returns the node with the given id in the subtree rooted at n,
// or nil if absent.
func (n *Node) Find(id ID) *Node {
	if n.id == id {
		return n
	}
	for _, c := range n.children.nodes {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}
