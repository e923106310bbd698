// Package models defines the wire shapes shared by the store, the tree model
// and the seed loader.
package models

import (
	"fmt"

	"github.com/goccy/go-json"
)

// TypeKeyField is the discriminator key carried by every raw content payload.
const TypeKeyField = "__type_key__"

// RawContent is an unhydrated content payload exactly as persisted. The
// content registry turns it into a concrete content instance.
type RawContent map[string]any

// TypeKey returns the payload's declared content type key, or "" if the
// payload carries none.
func (rc RawContent) TypeKey() string {
	v, _ := rc[TypeKeyField].(string)
	return v
}

// String returns the named payload field as a string, or "" when absent.
func (rc RawContent) String(field string) string {
	v, _ := rc[field].(string)
	return v
}

// NodeRecord is the structural JSON shape a node is persisted and loaded as:
//
//	{ "id": ..., "parent_id": ..., "left_id": ...,
//	  "children": [ ...same shape... ],
//	  "content": { "__type_key__": ..., ...payload } }
//
// parent_id empty means the node sits at the root; left_id empty means it is
// the leftmost among its siblings.
type NodeRecord struct {
	ID       string       `json:"id"`
	ParentID string       `json:"parent_id,omitempty"`
	LeftID   string       `json:"left_id,omitempty"`
	Children []NodeRecord `json:"children,omitempty"`
	Content  RawContent   `json:"content,omitempty"`
}

// StructuralAttrs is the attribute subset a structural move persists.
type StructuralAttrs struct {
	ParentID string `json:"parent_id"`
	LeftID   string `json:"left_id"`
}

// DecodeRecord parses a single nested NodeRecord from JSON.
func DecodeRecord(data []byte) (*NodeRecord, error) {
	var rec NodeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode node record: %w", err)
	}
	return &rec, nil
}

// DecodeContent parses a raw content payload from its persisted JSON form.
func DecodeContent(data []byte) (RawContent, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rc RawContent
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to decode content payload: %w", err)
	}
	return rc, nil
}

// EncodeContent serializes a raw content payload for persistence. A nil
// payload encodes to nil, not "null".
func EncodeContent(rc RawContent) ([]byte, error) {
	if rc == nil {
		return nil, nil
	}
	data, err := json.Marshal(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content payload: %w", err)
	}
	return data, nil
}
