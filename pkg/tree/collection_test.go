package tree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/arbortools/arbor/pkg/models"
)

func node(id, parentID, leftID string) *Node {
	return NewNode(models.NodeRecord{ID: id, ParentID: parentID, LeftID: leftID})
}

func TestAddClaimsNodeFromPreviousOwner(t *testing.T) {
	a := NewCollection(nil)
	b := NewCollection(nil)
	n := node("n1", "", "")

	a.Add(n)
	assert.Same(t, a, n.Owner())
	assert.Equal(t, 1, a.Len())

	b.Add(n)
	assert.Same(t, b, n.Owner(), "node belongs to exactly one collection")
	assert.Equal(t, 0, a.Len())
	assert.Nil(t, a.Find("n1"))
	assert.Same(t, n, b.Find("n1"))
}

func TestAddIsIdempotentForCurrentOwner(t *testing.T) {
	c := NewCollection(nil)
	n := node("n1", "", "")

	var added int
	c.Signals.Added.Connect(func(*Node) { added++ })

	c.Add(n)
	c.Add(n)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, c.Len())
}

func TestRemoveClearsBackReference(t *testing.T) {
	c := NewCollection(nil)
	n := node("n1", "", "")
	c.Add(n)

	var removed []*Node
	c.Signals.Removed.Connect(func(m *Node) { removed = append(removed, m) })

	c.Remove(n)
	assert.Nil(t, n.Owner())
	assert.Equal(t, []*Node{n}, removed)

	// Removing a non-member is a no-op, not a second signal.
	c.Remove(n)
	assert.Len(t, removed, 1)
}

func TestResetFiresOnceWithoutMembershipChurn(t *testing.T) {
	c := NewCollection(nil)
	c.Add(node("old", "", ""))

	var added, removed, resets int
	c.Signals.Added.Connect(func(*Node) { added++ })
	c.Signals.Removed.Connect(func(*Node) { removed++ })
	c.Signals.Reset.Connect(func(*Collection) { resets++ })

	n1, n2 := node("n1", "", ""), node("n2", "", "n1")
	c.Reset([]*Node{n1, n2})

	assert.Equal(t, 0, added)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, resets)
	assert.Equal(t, 2, c.Len())
	assert.Same(t, c, n1.Owner())
	assert.Same(t, c, n2.Owner())
}

func TestInOrderWalksLeftChain(t *testing.T) {
	c := NewCollection(nil)
	// Insertion order deliberately scrambled; left_id is authoritative.
	b := node("b", "", "a")
	a := node("a", "", "")
	d := node("d", "", "c")
	cc := node("c", "", "b")
	for _, n := range []*Node{b, a, d, cc} {
		c.Add(n)
	}

	ordered, err := c.InOrder()
	require.NoError(t, err)

	ids := make([]ID, 0, len(ordered))
	for _, n := range ordered {
		ids = append(ids, n.ID())
	}
	assert.Equal(t, []ID{"a", "b", "c", "d"}, ids)
}

func TestInOrderEmptyCollection(t *testing.T) {
	ordered, err := NewCollection(nil).InOrder()
	require.NoError(t, err)
	assert.Empty(t, ordered)
}

func TestInOrderRejectsBrokenChains(t *testing.T) {
	cases := []struct {
		name  string
		nodes []*Node
	}{
		{"two leftmost", []*Node{node("a", "", ""), node("b", "", "")}},
		{"duplicate left", []*Node{node("a", "", ""), node("b", "", "a"), node("c", "", "a")}},
		{"no leftmost", []*Node{node("a", "", "b"), node("b", "", "a")}},
		{"dangling left", []*Node{node("a", "", ""), node("b", "", "ghost")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCollection(nil)
			for _, n := range tc.nodes {
				c.Add(n)
			}
			_, err := c.InOrder()
			assert.ErrorIs(t, err, ErrBrokenOrder)
		})
	}
}

// Whatever order siblings are inserted in, a well-formed left chain is
// walked completely, visiting every member exactly once.
func TestInOrderTotalOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(1, 20).Draw(t, "size")

		nodes := make([]*Node, size)
		left := ""
		for i := 0; i < size; i++ {
			id := fmt.Sprintf("n%d", i)
			nodes[i] = node(id, "", left)
			left = id
		}

		perm := rapid.Permutation(nodes).Draw(t, "perm")
		c := NewCollection(nil)
		for _, n := range perm {
			c.Add(n)
		}

		ordered, err := c.InOrder()
		if err != nil {
			t.Fatalf("well-formed chain rejected: %v", err)
		}
		if len(ordered) != size {
			t.Fatalf("walk visited %d of %d nodes", len(ordered), size)
		}
		for i, n := range ordered {
			want := ID(fmt.Sprintf("n%d", i))
			if n.ID() != want {
				t.Fatalf("position %d: got %s, want %s", i, n.ID(), want)
			}
		}
	})
}
