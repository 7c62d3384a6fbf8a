package kv

import (
	"context"
	"sync"
)

// Memory is a Store that lives only as long as the process.
type Memory struct {
	mu     sync.RWMutex
	bools  map[string]bool
	strs   map[string][]string
	closed bool
}

func NewMemory() *Memory {
	return &Memory{
		bools: make(map[string]bool),
		strs:  make(map[string][]string),
	}
}

func (m *Memory) Bool(_ context.Context, key string) (bool, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false, false, ErrClosed
	}
	v, ok := m.bools[key]
	return v, ok, nil
}

func (m *Memory) SetBool(_ context.Context, key string, v bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.bools[key] = v
	return nil
}

func (m *Memory) Strings(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.strs[key]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), v...), nil
}

func (m *Memory) SetStrings(_ context.Context, key string, v []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.strs[key] = append([]string{}, v...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.bools, key)
	delete(m.strs, key)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
