// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"sync"

	"github.com/katalvlaran/meanval/table"
)

// Memory keeps cloned tables in a map. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	tables map[table.Key]*table.Table
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[table.Key]*table.Table)}
}

// Load implements Store.
func (m *Memory) Load(_ context.Context, key table.Key) (*table.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[key]
	if !ok {
		return nil, notFound(key)
	}

	return t.Clone(), nil
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, t *table.Table) error {
	if err := checkSave(t); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	merged, err := merge(m.tables[t.Key()], t)
	if err != nil {
		return err
	}
	m.tables[t.Key()] = merged

	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
