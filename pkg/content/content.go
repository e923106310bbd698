// Package content implements the pluggable content subsystem: a registry of
// content types keyed by the payload's declared type key, asynchronous
// resolution of that key into a constructor, and the view factory each
// instantiated content exposes.
package content

import (
	"github.com/arbortools/arbor/pkg/models"
)

// Content is an instantiated content payload bound to a node. It is owned by
// the node but carries no structural state.
type Content interface {
	// TypeKey reports the registered key this content was built from.
	TypeKey() string
	// Title is the short label shown on the node's own row.
	Title() string
	// View returns a fresh view bound to this content instance.
	View() View
}

// View renders a content instance into a node's content slot.
type View interface {
	Render(width int) string
}

// Type describes a registered content kind: the key payloads declare, and
// the constructor that binds a raw payload to a concrete Content.
type Type struct {
	Key string
	New func(models.RawContent) (Content, error)
}
