package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store backed by a map.  It serves unit tests and
// single-process deployments.  Subscribe callbacks run synchronously on
// the writing goroutine after the value is visible, which mirrors how the
// original same-tab change event fired inside the write call.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	subMu sync.Mutex
	subs  map[string]map[int]func(string)
	next  int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string][]byte),
		subs: make(map[string]map[int]func(string)),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	v, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.mu.Lock()
	m.data[key] = cp
	m.mu.Unlock()
	m.notify(key)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	m.notify(key)
	return nil
}

func (m *Memory) Subscribe(key string, fn func(string)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if m.subs[key] == nil {
		m.subs[key] = make(map[int]func(string))
	}
	id := m.next
	m.next++
	m.subs[key][id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs[key], id)
	}
}

func (m *Memory) notify(key string) {
	m.subMu.Lock()
	fns := make([]func(string), 0, len(m.subs[key]))
	for _, fn := range m.subs[key] {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(key)
	}
}
