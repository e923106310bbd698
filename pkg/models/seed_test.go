package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedDerivesLeftChains(t *testing.T) {
	data := []byte(`
nodes:
  - id: intro
    type: heading
    fields: {text: Introduction, level: 1}
    children:
      - id: p1
        type: text
        fields: {body: First.}
      - id: p2
        type: text
        fields: {body: Second.}
  - id: outro
    type: heading
    fields: {text: Outro, level: 1}
`)
	seeds, err := LoadSeed(data)
	require.NoError(t, err)

	recs, err := Records(seeds, "")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	intro := recs[0]
	assert.Empty(t, intro.LeftID)
	assert.Equal(t, "heading", intro.Content.TypeKey())
	assert.Equal(t, "Introduction", intro.Content.String("text"))

	require.Len(t, intro.Children, 2)
	assert.Equal(t, "intro", intro.Children[0].ParentID)
	assert.Empty(t, intro.Children[0].LeftID)
	assert.Equal(t, "p1", intro.Children[1].LeftID, "second sibling points at the first")

	assert.Equal(t, "intro", recs[1].LeftID, "top-level order becomes a left chain")
}

func TestLoadSeedRejectsEmptyDocument(t *testing.T) {
	_, err := LoadSeed([]byte("nodes: []"))
	assert.Error(t, err)
}

func TestRecordsRejectsMissingID(t *testing.T) {
	_, err := Records([]SeedRecord{{Type: "text"}}, "")
	assert.Error(t, err)
}
