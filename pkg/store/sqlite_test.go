package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbortools/arbor/pkg/models"
	"github.com/arbortools/arbor/pkg/tree"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := Open(filepath.Join(t.TempDir(), "arbor.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedDB(t *testing.T, s *SQLite) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, models.NodeRecord{
		ID:      "a",
		Content: models.RawContent{models.TypeKeyField: "heading", "text": "A", "level": float64(1)},
		Children: []models.NodeRecord{
			{ID: "a1", ParentID: "a",
				Content: models.RawContent{models.TypeKeyField: "text", "body": "first"}},
			{ID: "a2", ParentID: "a", LeftID: "a1"},
		},
	}))
	require.NoError(t, s.Insert(ctx, models.NodeRecord{ID: "b", LeftID: "a"}))
}

func TestLoadTreeReassemblesNestedOrder(t *testing.T) {
	s := openTestDB(t)
	seedDB(t, s)

	recs, err := s.LoadTree(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "b", recs[1].ID)
	assert.Equal(t, "heading", recs[0].Content.TypeKey())
	assert.Nil(t, recs[1].Content)

	require.Len(t, recs[0].Children, 2)
	assert.Equal(t, "a1", recs[0].Children[0].ID)
	assert.Equal(t, "a2", recs[0].Children[1].ID)
	assert.Equal(t, "first", recs[0].Children[0].Content.String("body"))
}

func TestLoadTreeEmptyDatabase(t *testing.T) {
	s := openTestDB(t)
	recs, err := s.LoadTree(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSaveUpdatesAttributes(t *testing.T) {
	s := openTestDB(t)
	seedDB(t, s)
	ctx := context.Background()

	// a1 moves to the top level after b; a2 becomes leftmost under a.
	err := s.Save(ctx,
		tree.Change{ID: "a1", Attrs: models.StructuralAttrs{ParentID: "", LeftID: "b"}},
		tree.Change{ID: "a2", Attrs: models.StructuralAttrs{ParentID: "a", LeftID: ""}},
	)
	require.NoError(t, err)

	recs, err := s.LoadTree(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "a1", recs[2].ID)
	require.Len(t, recs[0].Children, 1)
	assert.Equal(t, "a2", recs[0].Children[0].ID)
	assert.Equal(t, "first", recs[2].Content.String("body"), "payload untouched by a structural save")
}

func TestSaveUnknownNodeRollsBack(t *testing.T) {
	s := openTestDB(t)
	seedDB(t, s)
	ctx := context.Background()

	err := s.Save(ctx,
		tree.Change{ID: "b", Attrs: models.StructuralAttrs{ParentID: "a", LeftID: "a2"}},
		tree.Change{ID: "ghost", Attrs: models.StructuralAttrs{}},
	)
	assert.ErrorIs(t, err, ErrUnknownNode)

	// The whole transaction failed, so b is untouched too.
	recs, err := s.LoadTree(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[1].ID)
	assert.Equal(t, "a", recs[1].LeftID)
}

func TestDeleteRemovesSubtree(t *testing.T) {
	s := openTestDB(t)
	seedDB(t, s)
	ctx := context.Background()

	// b must be rewired first, exactly as a detach plan would.
	require.NoError(t, s.Save(ctx,
		tree.Change{ID: "b", Attrs: models.StructuralAttrs{ParentID: "", LeftID: ""}}))
	require.NoError(t, s.Delete(ctx, "a"))

	recs, err := s.LoadTree(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].ID)

	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrUnknownNode)
}

func TestLoadTreeRejectsBrokenChains(t *testing.T) {
	cases := []struct {
		name string
		recs []models.NodeRecord
	}{
		{"two leftmost", []models.NodeRecord{{ID: "a"}, {ID: "b"}}},
		{"duplicate left", []models.NodeRecord{{ID: "a"}, {ID: "b", LeftID: "a"}, {ID: "c", LeftID: "a"}}},
		{"no leftmost", []models.NodeRecord{{ID: "a", LeftID: "b"}, {ID: "b", LeftID: "a"}}},
		{"dangling left", []models.NodeRecord{{ID: "a"}, {ID: "b", LeftID: "ghost"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := openTestDB(t)
			ctx := context.Background()
			for _, rec := range tc.recs {
				require.NoError(t, s.Insert(ctx, rec))
			}
			_, err := s.LoadTree(ctx)
			assert.ErrorIs(t, err, tree.ErrBrokenOrder)
		})
	}
}

func TestRoundTripThroughTree(t *testing.T) {
	s := openTestDB(t)
	seedDB(t, s)
	ctx := context.Background()

	recs, err := s.LoadTree(ctx)
	require.NoError(t, err)
	root := tree.BuildRoot(recs)

	plan, err := tree.PlanMove(root, root.Find("a2"), "", "b")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, plan...))

	reloaded, err := s.LoadTree(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 3)
	assert.Equal(t, "a2", reloaded[2].ID)

	rec, err := tree.BuildRoot(reloaded).Record()
	require.NoError(t, err)
	require.Len(t, rec.Children, 3)
	assert.Equal(t, "a2", rec.Children[2].ID, "store and rebuilt tree agree after the move")
}
