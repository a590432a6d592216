package cartclient

import (
	"context"
	"sync"
)

// Mock implements Client in-memory and is useful for testing and
// development.
type Mock struct {
	AddErr error
	GetErr error

	mu    sync.Mutex
	items map[string]int
	adds  int
	gets  int
}

// AddItems records the batch unless AddErr is configured.
func (m *Mock) AddItems(_ context.Context, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adds++
	if m.AddErr != nil {
		return m.AddErr
	}
	if m.items == nil {
		m.items = make(map[string]int)
	}
	for _, it := range items {
		m.items[it.ID] += it.Quantity
	}
	return nil
}

// GetCart returns the accumulated item count unless GetErr is configured.
func (m *Mock) GetCart(_ context.Context) (Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.GetErr != nil {
		return Cart{}, m.GetErr
	}
	count := 0
	for _, qty := range m.items {
		count += qty
	}
	return Cart{ItemCount: count}, nil
}

// AddCalls reports how many times AddItems was invoked.
func (m *Mock) AddCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adds
}

// GetCalls reports how many times GetCart was invoked.
func (m *Mock) GetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}
