package tree

import (
	"errors"
	"fmt"

	"github.com/arbortools/arbor/pkg/models"
)

// Move validation errors. These surface loudly: the engine defines no
// fallback placement for an invalid destination.
var (
	ErrUnknownParent = errors.New("unknown parent node")
	ErrUnknownLeft   = errors.New("left sibling not in destination")
	ErrCyclicMove    = errors.New("destination is inside the moved subtree")
)

// Build assembles a node and its whole subtree from a nested record.
func Build(rec models.NodeRecord) *Node {
	n := NewNode(rec)
	children := make([]*Node, 0, len(rec.Children))
	for _, cr := range rec.Children {
		children = append(children, Build(cr))
	}
	n.SetChildren(children)
	return n
}

// BuildRoot wraps top-level records in a synthetic root node with an empty
// id. The root's children collection is the tree's root collection.
func BuildRoot(recs []models.NodeRecord) *Node {
	root := NewNode(models.NodeRecord{})
	children := make([]*Node, 0, len(recs))
	for _, r := range recs {
		children = append(children, Build(r))
	}
	root.SetChildren(children)
	return root
}

// Record serializes the subtree rooted at n back into its nested wire
// shape, children in visual order.
func (n *Node) Record() (models.NodeRecord, error) {
	rec := models.NodeRecord{
		ID:       string(n.id),
		ParentID: string(n.parentID),
		LeftID:   string(n.leftID),
	}
	if n.raw != nil {
		rec.Content = n.raw
	}
	ordered, err := n.children.InOrder()
	if err != nil {
		return rec, err
	}
	for _, c := range ordered {
		cr, err := c.Record()
		if err != nil {
			return rec, err
		}
		rec.Children = append(rec.Children, cr)
	}
	return rec, nil
}

// ValidateMove checks a proposed (parent, left) destination for node against
// the tree rooted at root: the parent must exist, the left sibling must be
// one of the parent's children, and the parent must not sit inside the moved
// subtree.
func ValidateMove(root, node *Node, parentID, leftID ID) error {
	parent := root
	if parentID != "" {
		parent = root.Find(parentID)
		if parent == nil {
			return fmt.Errorf("%w: %s", ErrUnknownParent, parentID)
		}
	}
	if parent == node || node.IsAncestorOf(parent) {
		return fmt.Errorf("%w: %s under %s", ErrCyclicMove, node.ID(), parentID)
	}
	if leftID != "" && leftID != node.ID() {
		if parent.Children().Find(leftID) == nil {
			return fmt.Errorf("%w: %s not under %s", ErrUnknownLeft, leftID, parentID)
		}
	}
	return nil
}
