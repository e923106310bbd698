// Package drag implements the gesture controller that turns pointer events
// into a pick-up / follow / drop-target / commit sequence proposing a new
// (parent, left sibling) pair for the dragged node.
package drag

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arbortools/arbor/pkg/store"
	"github.com/arbortools/arbor/pkg/tree"
	"github.com/arbortools/arbor/pkg/view"
)

// Phase is the controller's state machine position:
// Idle → PickedUp → Following → (drop | cancel) → Idle.
type Phase int

const (
	Idle Phase = iota
	PickedUp
	Following
)

var (
	// ErrDragActive rejects a pick-up while a drag is already in flight.
	// At most one drag is active tree-wide.
	ErrDragActive = errors.New("a drag is already active")
	// ErrNoDrag rejects follow/drop calls outside an active drag.
	ErrNoDrag = errors.New("no active drag")
	// ErrNotATarget rejects a drop on an element that is not a placeholder.
	ErrNotATarget = errors.New("drop position is not a target")
)

// Pending is a proposed structural move awaiting persistence. The commit is
// pessimistic: nothing is applied to the canonical tree until the save
// acknowledges, after which Finish applies the plan (or Abort discards it,
// leaving the last-acknowledged attributes in place).
type Pending struct {
	Node     *tree.Node
	ParentID tree.ID
	LeftID   tree.ID
	Plan     []tree.Change
}

// Controller coordinates the single active drag for one tree context.
type Controller struct {
	ctx  *view.Context
	log  *logrus.Logger
	root *tree.Node

	phase   Phase
	dragged *view.View
}

// NewController builds a controller for the tree projected by ctx.
func NewController(ctx *view.Context, root *tree.Node, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.New()
	}
	return &Controller{ctx: ctx, root: root, log: log}
}

// Phase returns the current state machine position.
func (c *Controller) Phase() Phase { return c.phase }

// Dragged returns the view being dragged, nil when idle.
func (c *Controller) Dragged() *view.View { return c.dragged }

// PickUp starts a drag on v's handle. The view's own stale targets are
// cleared, every eligible parent exposes fresh targets, and the dragged
// element switches to pointer-following mode immediately.
func (c *Controller) PickUp(v *view.View, x, y int) error {
	if c.phase != Idle {
		return ErrDragActive
	}
	c.phase = PickedUp
	c.dragged = v
	v.ClearDropTargets()
	c.ctx.ShowAllDropTargets(v)
	v.Element().SetFloating(x, y)
	return nil
}

// Move tracks the pointer: the dragged element's position is the pointer
// position, no easing, no threshold.
func (c *Controller) Move(x, y int) {
	if c.phase == Idle {
		return
	}
	c.phase = Following
	c.dragged.Element().SetFloating(x, y)
}

// Drop releases the drag over target and returns the proposed move. Target
// index arithmetic runs against the interleaved child list (position / 2 is
// the structural index), then every target in the tree is cleared before
// sibling identities are resolved from the uncluttered list.
//
// A nil target is the cancellation path: local reset, no model mutation, no
// error. An invalid destination (cycle, vanished sibling) cancels the drag
// and returns the reason.
func (c *Controller) Drop(target *view.Element) (*Pending, error) {
	if c.phase == Idle {
		return nil, ErrNoDrag
	}
	if target == nil {
		c.Cancel()
		return nil, nil
	}
	if target.Kind() != view.KindDropTarget {
		c.Cancel()
		return nil, ErrNotATarget
	}
	parentView := c.ctx.FindByElement(target)
	if parentView == nil {
		c.Cancel()
		return nil, fmt.Errorf("%w: drop target has no registered view", tree.ErrUnknownParent)
	}

	index := target.Parent().Index(target) / 2
	c.ctx.ClearAllDropTargets()

	var leftID tree.ID
	if index > 0 {
		siblings := parentView.ChildViews()
		if index-1 >= len(siblings) {
			c.Cancel()
			return nil, fmt.Errorf("%w: drop index %d exceeds %d children under %s",
				tree.ErrUnknownLeft, index, len(siblings), parentView.Node().ID())
		}
		leftID = siblings[index-1].Node().ID()
	}

	plan, err := tree.PlanMove(c.root, c.dragged.Node(), parentView.Node().ID(), leftID)
	if err != nil {
		c.Cancel()
		return nil, err
	}

	dragged := c.dragged
	dragged.Element().ClearFloating()
	c.reset()
	if plan == nil {
		// Dropped back into its own slot.
		return nil, nil
	}
	return &Pending{
		Node:     dragged.Node(),
		ParentID: parentView.Node().ID(),
		LeftID:   leftID,
		Plan:     plan,
	}, nil
}

// Finish applies an acknowledged move to the canonical tree. The commits
// fire the reposition cascade that re-derives membership and element order.
func (c *Controller) Finish(p *Pending) error {
	return tree.Apply(c.root, p.Plan)
}

// Abort discards a move whose save failed. The structural attributes were
// never applied, so the tree already reflects the last acknowledged state;
// only the failure is reported.
func (c *Controller) Abort(p *Pending, err error) {
	c.log.WithError(err).WithField("node", p.Node.ID()).
		Warn("structural save failed; move reverted to last acknowledged state")
}

// Commit persists and applies a pending move in one step, for callers
// without their own event loop. The save uses wait semantics: the tree is
// only touched after the store acknowledges.
func (c *Controller) Commit(ctx context.Context, s store.Saver, p *Pending) error {
	if p == nil {
		return nil
	}
	if err := s.Save(ctx, p.Plan...); err != nil {
		c.Abort(p, err)
		return err
	}
	return c.Finish(p)
}

// Cancel resets an active drag with no structural mutation: targets cleared,
// static positioning restored.
func (c *Controller) Cancel() {
	if c.phase == Idle {
		return
	}
	c.ctx.ClearAllDropTargets()
	c.dragged.Element().ClearFloating()
	c.reset()
}

func (c *Controller) reset() {
	c.phase = Idle
	c.dragged = nil
}
