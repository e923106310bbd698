package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SeedRecord is the YAML shape accepted by `arbor init --seed`. It is a
// friendlier spelling of NodeRecord: sibling order is given by list position
// and converted into left_id chains, and content is flattened into a type
// plus a field map.
type SeedRecord struct {
	ID       string         `yaml:"id"`
	Type     string         `yaml:"type,omitempty"`
	Fields   map[string]any `yaml:"fields,omitempty"`
	Children []SeedRecord   `yaml:"children,omitempty"`
}

// LoadSeed parses a YAML seed document into the top-level records.
func LoadSeed(data []byte) ([]SeedRecord, error) {
	var doc struct {
		Nodes []SeedRecord `yaml:"nodes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("seed file declares no nodes")
	}
	return doc.Nodes, nil
}

// Records converts seed records into NodeRecords rooted at parentID,
// deriving each left_id from list order.
func Records(seeds []SeedRecord, parentID string) ([]NodeRecord, error) {
	out := make([]NodeRecord, 0, len(seeds))
	leftID := ""
	for _, s := range seeds {
		if s.ID == "" {
			return nil, fmt.Errorf("seed node under parent %q is missing an id", parentID)
		}
		rec := NodeRecord{
			ID:       s.ID,
			ParentID: parentID,
			LeftID:   leftID,
		}
		if s.Type != "" {
			content := RawContent{TypeKeyField: s.Type}
			for k, v := range s.Fields {
				content[k] = v
			}
			rec.Content = content
		}
		children, err := Records(s.Children, s.ID)
		if err != nil {
			return nil, err
		}
		rec.Children = children
		out = append(out, rec)
		leftID = s.ID
	}
	return out, nil
}
