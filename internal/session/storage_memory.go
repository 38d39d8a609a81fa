// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"net/http"
	"sync"
)

// MemoryStorage keeps the session record in a map.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage creates an empty [MemoryStorage].
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get implements [Storage].
func (storage *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	storage.mu.RLock()
	defer storage.mu.RUnlock()

	value, ok := storage.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Set implements [Storage].
func (storage *MemoryStorage) Set(_ context.Context, key, value string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	storage.values[key] = value
	return nil
}

// Delete implements [Storage].
func (storage *MemoryStorage) Delete(_ context.Context, keys ...string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	for _, key := range keys {
		delete(storage.values, key)
	}
	return nil
}

// MemoryBackend hands every request the same [MemoryStorage].
//
// It models a single client and is meant for tests and local tooling.
type MemoryBackend struct {
	Storage *MemoryStorage
}

// NewMemoryBackend creates a backend over a fresh [MemoryStorage].
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{Storage: NewMemoryStorage()}
}

// Open implements [Backend].
func (backend *MemoryBackend) Open(http.ResponseWriter, *http.Request) (Storage, error) {
	return backend.Storage, nil
}
