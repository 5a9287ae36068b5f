// Package storage provides the durable key/value capability the client stores persist to.
package storage

import (
	"context"
	"sync"

	"github.com/and161185/school-portal/internal/errs"
)

// Well-known keys. Stores write disjoint keys, so no cross-store locking is needed.
const (
	KeyAuthToken = "authToken"
	KeyLanguage  = "language"

	// Legacy admin persistence keys; admin mode is no longer persisted.
	KeyAdminMode = "adminMode"
	KeyAdminData = "adminData"
)

// Storage is a string key/value store that outlives a single process.
type Storage interface {
	// Get returns the value for key or errs.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Memory is an in-process Storage, used in tests and for ephemeral sessions.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemory constructs an empty in-memory storage.
func NewMemory() *Memory { return &Memory{m: map[string]string{}} }

func (s *Memory) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return "", errs.ErrNotFound
	}
	return v, nil
}

func (s *Memory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Memory) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}
