package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/arbortools/arbor/pkg/models"
	"github.com/arbortools/arbor/pkg/tree"
)

// Memory is an in-process Saver for tests and offline use. A queued failure
// makes the next Save return it, which is how drop-revert behavior is
// exercised.
type Memory struct {
	mu      sync.Mutex
	attrs   map[tree.ID]models.StructuralAttrs
	nextErr error
	saves   int
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{attrs: make(map[tree.ID]models.StructuralAttrs)}
}

// FailNextSave makes the next Save return err without persisting anything.
func (m *Memory) FailNextSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextErr = err
}

// Save records the changes, or returns the queued failure.
func (m *Memory) Save(ctx context.Context, changes ...tree.Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nextErr != nil {
		err := m.nextErr
		m.nextErr = nil
		return fmt.Errorf("save rejected: %w", err)
	}
	for _, ch := range changes {
		m.attrs[ch.ID] = ch.Attrs
	}
	m.saves++
	return nil
}

// Attrs returns the last acknowledged attributes for id.
func (m *Memory) Attrs(id tree.ID) (models.StructuralAttrs, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attrs[id]
	return a, ok
}

// Saves reports how many successful Save calls were made.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
