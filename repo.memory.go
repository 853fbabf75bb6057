package main

import (
	"context"
	"sync"
)

// memorySlot keeps values in process memory.
type memorySlot struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySlot provides an in-memory slot.
func NewMemorySlot() Slot {
	return &memorySlot{values: make(map[string]string)}
}

func (ms *memorySlot) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	v, ok := ms.values[key]
	return v, ok, nil
}

func (ms *memorySlot) Set(_ context.Context, key string, value string) error {
	ms.mu.Lock()
	ms.values[key] = value
	ms.mu.Unlock()
	return nil
}

func (ms *memorySlot) Close() error {
	return nil
}
