package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecordNestedShape(t *testing.T) {
	data := []byte(`{
		"id": "part1",
		"left_id": "",
		"children": [
			{"id": "ch1", "parent_id": "part1",
			 "content": {"__type_key__": "heading", "text": "One", "level": 1}},
			{"id": "ch2", "parent_id": "part1", "left_id": "ch1",
			 "content": {"__type_key__": "text", "body": "Hello"}}
		]
	}`)

	rec, err := DecodeRecord(data)
	require.NoError(t, err)

	assert.Equal(t, "part1", rec.ID)
	assert.Empty(t, rec.ParentID)
	require.Len(t, rec.Children, 2)

	ch1 := rec.Children[0]
	assert.Equal(t, "part1", ch1.ParentID)
	assert.Empty(t, ch1.LeftID)
	assert.Equal(t, "heading", ch1.Content.TypeKey())
	assert.Equal(t, "One", ch1.Content.String("text"))

	ch2 := rec.Children[1]
	assert.Equal(t, "ch1", ch2.LeftID)
	assert.Equal(t, "text", ch2.Content.TypeKey())
}

func TestDecodeRecordRejectsGarbage(t *testing.T) {
	_, err := DecodeRecord([]byte(`{"id": 12`))
	assert.Error(t, err)
}

func TestContentRoundTrip(t *testing.T) {
	rc := RawContent{TypeKeyField: "todo", "text": "ship it", "done": true}

	data, err := EncodeContent(rc)
	require.NoError(t, err)

	back, err := DecodeContent(data)
	require.NoError(t, err)
	assert.Equal(t, "todo", back.TypeKey())
	assert.Equal(t, "ship it", back.String("text"))
}

func TestEncodeNilContent(t *testing.T) {
	data, err := EncodeContent(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	back, err := DecodeContent(nil)
	require.NoError(t, err)
	assert.Nil(t, back)
}

func TestRawContentTypeKeyMissing(t *testing.T) {
	assert.Empty(t, RawContent{"body": "x"}.TypeKey())
}
