package view

import (
	"fmt"

	"github.com/arbortools/arbor/pkg/tree"
)

// reposition is the positioning engine: it reacts to a node's committed
// structural change and re-derives collection membership and element order.
//
// A changed parent moves the node between collections; the resulting
// Added/Removed signals reattach the existing element instead of rendering
// from scratch. An unchanged parent is a pure reorder and only relocates the
// element in place, avoiding membership churn. Either way the final element
// position follows the left_id rule in placeChild.
func reposition(ctx *Context, ev tree.Reposition) {
	v := ctx.FindByID(ev.Node.ID())
	if v == nil {
		ctx.fail(fmt.Errorf("reposition of %s: no view registered", ev.Node.ID()))
		return
	}
	destView := ctx.FindByID(ev.ParentID)
	if destView == nil {
		ctx.fail(fmt.Errorf("%w: reposition of %s targets %q", tree.ErrUnknownParent, ev.Node.ID(), ev.ParentID))
		return
	}
	dest := destView.node.Children()
	if ev.Node.Owner() != dest {
		dest.Add(ev.Node)
		return
	}
	destView.placeChild(v)
}
