package store

import (
	"context"
	"maps"
	"sync"
)

// Memory keeps items in process memory. A single mutex guards every operation, including
// the id generation of Insert.
type Memory struct {
	mu     sync.Mutex
	items  map[string]Item
	order  []string
	nextID IDFunc
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithIDFunc replaces the default sequential id scheme.
func WithIDFunc(f IDFunc) MemoryOption {
	return func(m *Memory) { m.nextID = f }
}

// NewMemory creates an empty store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{items: make(map[string]Item), nextID: SequentialIDs()}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// All returns copies of every item in insertion order.
func (m *Memory) All(_ context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Item, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, maps.Clone(m.items[id]))
	}

	return out, nil
}

func (m *Memory) Get(_ context.Context, id string) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}

	return maps.Clone(it), nil
}

// Insert stores a copy of item under a newly generated id. Any "id" in item is overwritten.
func (m *Memory) Insert(_ context.Context, item Item) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID()
	for m.items[id] != nil {
		id = m.nextID()
	}

	stored := item.withID(id)
	m.items[id] = stored
	m.order = append(m.order, id)

	return maps.Clone(stored), nil
}

// Update replaces the item with the given id. The stored item keeps id regardless of what
// item contains.
func (m *Memory) Update(_ context.Context, id string, item Item) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return nil, ErrNotFound
	}

	stored := item.withID(id)
	m.items[id] = stored

	return maps.Clone(stored), nil
}

var _ Store = &Memory{}
