package tree

import (
	"errors"
	"fmt"

	"github.com/arbortools/arbor/pkg/signal"
)

// ErrBrokenOrder reports a sibling group whose left_id chain does not form a
// total order: duplicate left references, no leftmost node, or a cycle.
var ErrBrokenOrder = errors.New("broken sibling order")

// CollectionSignals groups the membership events a collection emits.
type CollectionSignals struct {
	// Added fires for each node joining the collection.
	Added signal.Signal[*Node]
	// Removed fires for each node leaving the collection.
	Removed signal.Signal[*Node]
	// Reset fires once after a bulk replace; Added/Removed stay silent.
	Reset signal.Signal[*Collection]
}

// Collection is an ordered, identity-indexed set of sibling nodes: exactly
// one level of the tree's parent/child relation. Slice order is insertion
// order only; visual order is derived from left_id via InOrder.
type Collection struct {
	owner *Node
	nodes []*Node
	index map[ID]*Node

	Signals CollectionSignals
}

// NewCollection returns an empty collection owned by the given node. A nil
// owner makes a root collection.
func NewCollection(owner *Node) *Collection {
	return &Collection{owner: owner, index: make(map[ID]*Node)}
}

// Owner returns the node whose children this collection holds, nil for a
// root collection.
func (c *Collection) Owner() *Node { return c.owner }

// Len reports the number of member nodes.
func (c *Collection) Len() int { return len(c.nodes) }

// Nodes returns the members in insertion order. The slice is a copy.
func (c *Collection) Nodes() []*Node {
	out := make([]*Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Find returns the member with the given id, or nil.
func (c *Collection) Find(id ID) *Node {
	return c.index[id]
}

// Add appends a node and claims it: the node is first detached from any
// previous owner so it is never a member of two collections at once.
func (c *Collection) Add(n *Node) {
	if n.owner == c {
		return
	}
	if n.owner != nil {
		n.owner.Remove(n)
	}
	c.nodes = append(c.nodes, n)
	c.index[n.id] = n
	n.owner = c
	c.Signals.Added.Emit(n)
}

// Remove drops a node and clears its back-reference. Removing a non-member
// is a no-op.
func (c *Collection) Remove(n *Node) {
	if n.owner != c {
		return
	}
	for i, m := range c.nodes {
		if m == n {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			break
		}
	}
	delete(c.index, n.id)
	n.owner = nil
	c.Signals.Removed.Emit(n)
}

// Reset replaces the entire membership in one step and fires the Reset
// signal once, instead of per-node Added/Removed churn.
func (c *Collection) Reset(list []*Node) {
	for _, n := range c.nodes {
		n.owner = nil
	}
	c.nodes = make([]*Node, 0, len(list))
	c.index = make(map[ID]*Node, len(list))
	for _, n := range list {
		if n.owner != nil {
			n.owner.Remove(n)
		}
		c.nodes = append(c.nodes, n)
		c.index[n.id] = n
		n.owner = c
	}
	c.Signals.Reset.Emit(c)
}

// InOrder returns the members in visual order by walking the left_id chain:
// start at the single node with an empty left_id, then repeatedly follow
// "whose left_id names me". Every violation of the total-order invariant is
// reported as ErrBrokenOrder rather than guessed around.
func (c *Collection) InOrder() ([]*Node, error) {
	if len(c.nodes) == 0 {
		return nil, nil
	}
	next := make(map[ID]*Node, len(c.nodes))
	var head *Node
	for _, n := range c.nodes {
		if n.leftID == "" {
			if head != nil {
				return nil, fmt.Errorf("%w: nodes %s and %s are both leftmost", ErrBrokenOrder, head.id, n.id)
			}
			head = n
			continue
		}
		if prev, dup := next[n.leftID]; dup {
			return nil, fmt.Errorf("%w: nodes %s and %s share left sibling %s", ErrBrokenOrder, prev.id, n.id, n.leftID)
		}
		next[n.leftID] = n
	}
	if head == nil {
		return nil, fmt.Errorf("%w: no leftmost node", ErrBrokenOrder)
	}
	out := make([]*Node, 0, len(c.nodes))
	for n := head; n != nil; n = next[n.id] {
		out = append(out, n)
		if len(out) > len(c.nodes) {
			return nil, fmt.Errorf("%w: left chain revisits node %s", ErrBrokenOrder, n.id)
		}
	}
	if len(out) != len(c.nodes) {
		return nil, fmt.Errorf("%w: left chain reaches %d of %d nodes", ErrBrokenOrder, len(out), len(c.nodes))
	}
	return out, nil
}
