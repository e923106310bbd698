package tree

import (
	"fmt"

	"github.com/arbortools/arbor/pkg/models"
)

// Change is one node's structural attribute write inside a move plan.
type Change struct {
	ID    ID
	Attrs models.StructuralAttrs
}

// PlanMove validates a proposed (parent, left) destination for node and
// computes the minimal set of structural changes that keeps every affected
// left_id chain a total order:
//
//   - the moved node itself gets the new parent/left pair,
//   - its old right neighbor is spliced back onto the node's old left,
//   - the destination's previous occupant of the slot after left is rewired
//     to follow the moved node.
//
// A destination equal to the node's current position yields an empty plan.
// The moved node's change is always first, so applying the plan in order
// keeps intermediate states renderable.
func PlanMove(root, node *Node, parentID, leftID ID) ([]Change, error) {
	if err := ValidateMove(root, node, parentID, leftID); err != nil {
		return nil, err
	}
	if node.parentID == parentID && (node.leftID == leftID || leftID == node.id) {
		return nil, nil
	}

	changes := []Change{{
		ID:    node.id,
		Attrs: models.StructuralAttrs{ParentID: string(parentID), LeftID: string(leftID)},
	}}

	// Splice out: whoever pointed at the moved node now points at its old
	// left sibling.
	if node.owner != nil {
		if r := rightNeighbor(node.owner, node.id, node); r != nil {
			changes = append(changes, Change{
				ID:    r.id,
				Attrs: models.StructuralAttrs{ParentID: string(r.parentID), LeftID: string(node.leftID)},
			})
		}
	}

	// Splice in: the destination child that followed left now follows the
	// moved node instead.
	parent := root
	if parentID != "" {
		parent = root.Find(parentID)
	}
	if r := rightNeighbor(parent.Children(), leftID, node); r != nil {
		changes = append(changes, Change{
			ID:    r.id,
			Attrs: models.StructuralAttrs{ParentID: string(r.parentID), LeftID: string(node.id)},
		})
	}
	return changes, nil
}

// PlanDetach computes the neighbor rewire needed before removing node from
// the tree entirely: its right neighbor is spliced onto the node's old left.
func PlanDetach(node *Node) []Change {
	if node.owner == nil {
		return nil
	}
	r := rightNeighbor(node.owner, node.id, node)
	if r == nil {
		return nil
	}
	return []Change{{
		ID:    r.id,
		Attrs: models.StructuralAttrs{ParentID: string(r.parentID), LeftID: string(node.leftID)},
	}}
}

// Apply commits a plan to the in-memory tree in order. Each commit fires the
// node's Repositioned signal, which drives view re-layout.
func Apply(root *Node, changes []Change) error {
	for _, ch := range changes {
		n := root.Find(ch.ID)
		if n == nil {
			return fmt.Errorf("%w: change targets missing node %s", ErrUnknownParent, ch.ID)
		}
		n.CommitStructure(ID(ch.Attrs.ParentID), ID(ch.Attrs.LeftID))
	}
	return nil
}

// rightNeighbor returns the member of c (other than exclude) whose left_id
// is leftID, i.e. the current occupant of the slot right of leftID.
func rightNeighbor(c *Collection, leftID ID, exclude *Node) *Node {
	for _, n := range c.nodes {
		if n != exclude && n.leftID == leftID {
			return n
		}
	}
	return nil
}
