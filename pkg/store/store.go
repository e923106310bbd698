// Package store persists the structural tree. Saves use wait semantics: a
// call returns only once the change is durably acknowledged, and callers
// apply nothing client-side before that.
package store

import (
	"context"
	"errors"

	"github.com/arbortools/arbor/pkg/tree"
)

// ErrUnknownNode reports a save or delete against an id the store has no
// row for.
var ErrUnknownNode = errors.New("store: unknown node")

// Saver persists the structural changes of one move atomically.
type Saver interface {
	Save(ctx context.Context, changes ...tree.Change) error
}
