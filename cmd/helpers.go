package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arbortools/arbor/cmd/config"
	"github.com/arbortools/arbor/pkg/content"
	"github.com/arbortools/arbor/pkg/store"
	"github.com/arbortools/arbor/pkg/tree"
	"github.com/arbortools/arbor/pkg/view"
)

// Logger is the process-wide logger, configured by the root command.
var Logger = logrus.New()

func openStore() (*store.SQLite, error) {
	path := config.DatabasePath()
	s, err := store.Open(path, Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open tree database at %s: %w", path, err)
	}
	return s, nil
}

// loadTree reads the whole tree from the store and builds the structural
// model under a synthetic root node.
func loadTree(ctx context.Context, s *store.SQLite) (*tree.Node, error) {
	recs, err := s.LoadTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree: %w", err)
	}
	return tree.BuildRoot(recs), nil
}

// projectTree builds the view projection for a loaded tree and finishes any
// immediately-resolvable content hydration so CLI output is not all
// placeholders.
func projectTree(root *tree.Node, reg *content.Registry) (*view.Context, *view.View, error) {
	vctx := view.NewContext(reg, Logger)
	var fatal error
	vctx.SetErrorHandler(func(err error) {
		if fatal == nil {
			fatal = err
		}
	})
	rootView := view.NewRoot(vctx, root)
	if fatal != nil {
		return nil, nil, fatal
	}
	for _, h := range vctx.TakePending() {
		<-h.Future.Done()
		if err := h.Node.CompleteHydration(); err != nil {
			// One node's content failing must not take the tree down.
			Logger.WithError(err).Warn("content hydration failed")
		}
	}
	return vctx, rootView, nil
}
