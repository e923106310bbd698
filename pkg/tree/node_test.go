package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbortools/arbor/pkg/content"
	"github.com/arbortools/arbor/pkg/models"
)

func TestCommitStructureFiresOnParentChange(t *testing.T) {
	n := node("n1", "p1", "l1")

	var events []Reposition
	n.Repositioned.Connect(func(ev Reposition) { events = append(events, ev) })

	n.CommitStructure("p2", "l1")
	require.Len(t, events, 1)
	assert.Same(t, n, events[0].Node)
	assert.Equal(t, ID("p2"), events[0].ParentID)
	assert.Equal(t, ID("l1"), events[0].LeftID)
	assert.Equal(t, ID("p2"), n.ParentID(), "handlers observe committed state")
}

func TestCommitStructureFiresOnLeftChange(t *testing.T) {
	n := node("n1", "p1", "l1")

	var fired int
	n.Repositioned.Connect(func(Reposition) { fired++ })

	n.CommitStructure("p1", "l2")
	assert.Equal(t, 1, fired)
}

func TestCommitStructureSelfLeftIsNotAMove(t *testing.T) {
	n := node("n1", "p1", "l1")

	var fired int
	n.Repositioned.Connect(func(Reposition) { fired++ })

	// left_id pointing at the node itself is a persisted no-op.
	n.CommitStructure("p1", "n1")
	assert.Equal(t, 0, fired)
	assert.Equal(t, ID("n1"), n.LeftID(), "attribute still committed")
}

func TestCommitStructureUnchangedIsSilent(t *testing.T) {
	n := node("n1", "p1", "l1")

	var fired int
	n.Repositioned.Connect(func(Reposition) { fired++ })

	n.CommitStructure("p1", "l1")
	assert.Equal(t, 0, fired)
}

func TestSetChildrenAlwaysBuildsLiveCollection(t *testing.T) {
	p := node("p", "", "")
	a := node("a", "p", "")
	b := node("b", "p", "a")

	p.SetChildren([]*Node{a, b})

	require.NotNil(t, p.Children())
	assert.Same(t, p, p.Children().Owner())
	assert.Same(t, p.Children(), a.Owner())
	assert.Same(t, p.Children(), b.Owner())
	assert.Same(t, p, a.Parent())
}

func TestHydrateRawPayloadEmitsContentLoaded(t *testing.T) {
	reg := content.Builtins()
	n := NewNode(models.NodeRecord{
		ID:      "n1",
		Content: models.RawContent{models.TypeKeyField: "text", "body": "hi"},
	})

	var loaded []content.Content
	n.ContentLoaded.Connect(func(c content.Content) { loaded = append(loaded, c) })

	f := n.Hydrate(reg)
	require.NotNil(t, f, "raw payload needs resolution")
	assert.Empty(t, loaded, "nothing emitted before completion")

	require.NoError(t, n.CompleteHydration())
	require.Len(t, loaded, 1)
	assert.Equal(t, "text", loaded[0].TypeKey())
	assert.Same(t, loaded[0], n.Content())
}

func TestHydrateIsIdempotent(t *testing.T) {
	reg := content.Builtins()
	n := NewNode(models.NodeRecord{
		ID:      "n1",
		Content: models.RawContent{models.TypeKeyField: "text", "body": "hi"},
	})

	var loaded int
	n.ContentLoaded.Connect(func(content.Content) { loaded++ })

	require.NotNil(t, n.Hydrate(reg))
	require.NoError(t, n.CompleteHydration())
	first := n.Content()

	// Hydrating instantiated content re-emits without re-resolving.
	assert.Nil(t, n.Hydrate(reg))
	assert.Nil(t, n.Hydrate(reg))
	assert.Equal(t, 3, loaded, "one emission per invocation")
	assert.Same(t, first, n.Content(), "same instance, no re-resolution")
}

func TestHydrateResolvesEachRawPayloadOnce(t *testing.T) {
	reg := content.Builtins()
	n := NewNode(models.NodeRecord{
		ID:      "n1",
		Content: models.RawContent{models.TypeKeyField: "text", "body": "hi"},
	})

	f1 := n.Hydrate(reg)
	f2 := n.Hydrate(reg)
	assert.Same(t, f1, f2, "in-flight resolution is shared, not repeated")
}

func TestHydrateUnknownTypeFailsLocally(t *testing.T) {
	reg := content.NewRegistry()
	n := NewNode(models.NodeRecord{
		ID:      "n1",
		Content: models.RawContent{models.TypeKeyField: "mystery"},
	})

	var loaded int
	n.ContentLoaded.Connect(func(content.Content) { loaded++ })

	require.NotNil(t, n.Hydrate(reg))
	err := n.CompleteHydration()
	assert.ErrorIs(t, err, content.ErrUnknownType)
	assert.Equal(t, 0, loaded)
	assert.Nil(t, n.Content())
}

func TestHydrateNoPayloadIsSilent(t *testing.T) {
	n := node("n1", "", "")

	var loaded int
	n.ContentLoaded.Connect(func(content.Content) { loaded++ })

	assert.Nil(t, n.Hydrate(content.Builtins()))
	assert.NoError(t, n.CompleteHydration())
	assert.Equal(t, 0, loaded)
}

func TestSetContentReplacesPayload(t *testing.T) {
	reg := content.Builtins()
	n := NewNode(models.NodeRecord{
		ID:      "n1",
		Content: models.RawContent{models.TypeKeyField: "text", "body": "old"},
	})
	require.NotNil(t, n.Hydrate(reg))
	require.NoError(t, n.CompleteHydration())

	n.SetContent(models.RawContent{models.TypeKeyField: "todo", "text": "new"})
	assert.Nil(t, n.Content(), "instance dropped until re-hydration")

	require.NotNil(t, n.Hydrate(reg))
	require.NoError(t, n.CompleteHydration())
	assert.Equal(t, "todo", n.Content().TypeKey())
}

func TestDestroyDetachesSubtreeDepthFirst(t *testing.T) {
	root := BuildRoot([]models.NodeRecord{{
		ID: "a",
		Children: []models.NodeRecord{
			{ID: "a1", ParentID: "a"},
			{ID: "a2", ParentID: "a", LeftID: "a1"},
		},
	}})
	a := root.Find("a")
	require.NotNil(t, a)

	var destroyed []ID
	for _, id := range []ID{"a", "a1", "a2"} {
		n := root.Find(id)
		n.Destroyed.Connect(func(m *Node) { destroyed = append(destroyed, m.ID()) })
	}

	a.Destroy()
	assert.Equal(t, []ID{"a1", "a2", "a"}, destroyed, "descendants torn down before the ancestor")
	assert.Equal(t, 0, root.Children().Len())
	assert.Nil(t, root.Find("a1"))
}

func TestIsAncestorOf(t *testing.T) {
	root := BuildRoot([]models.NodeRecord{{
		ID:       "a",
		Children: []models.NodeRecord{{ID: "b", ParentID: "a", Children: []models.NodeRecord{{ID: "c", ParentID: "b"}}}},
	}, {ID: "x", LeftID: "a"}})

	a, b, c, x := root.Find("a"), root.Find("b"), root.Find("c"), root.Find("x")
	assert.True(t, a.IsAncestorOf(c))
	assert.True(t, root.IsAncestorOf(c))
	assert.False(t, c.IsAncestorOf(a))
	assert.False(t, a.IsAncestorOf(a))
	assert.False(t, x.IsAncestorOf(b))
}
