// Package memory implements db.Store in process memory. It backs tests and
// redis-less deployments; data does not survive a restart.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/finsight-cloud/finsight/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store is a mutex-guarded in-memory db.Store.
type Store struct {
	mu       sync.RWMutex
	hashes   map[string]map[string]string
	values   map[string][]byte
	counters map[string]int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		hashes:   make(map[string]map[string]string),
		values:   make(map[string][]byte),
		counters: make(map[string]int64),
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady always succeeds.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// HSet sets hash fields, merging into any existing hash at key.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

// HGetAll returns a copy of all fields of a hash; empty map if absent.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.hashes[key]))
	for k, v := range s.hashes[key] {
		out[k] = v
	}
	return out, nil
}

// Del removes a key from both the hash and value namespaces.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.hashes, key)
	delete(s.values, key)
	return nil
}

// Exists reports whether key holds a hash or a value.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.hashes[key]; ok {
		return true, nil
	}
	_, ok := s.values[key]
	return ok, nil
}

// Scan returns keys matching a glob pattern. Only the trailing-* form used by
// the repositories is supported.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := strings.TrimSuffix(pattern, "*")
	exact := prefix == pattern

	var keys []string
	for k := range s.hashes {
		if matches(k, prefix, exact) {
			keys = append(keys, k)
		}
	}
	for k := range s.values {
		if matches(k, prefix, exact) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func matches(key, prefix string, exact bool) bool {
	if exact {
		return key == prefix
	}
	return strings.HasPrefix(key, prefix)
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}

// Incr atomically increments a counter and returns the new value.
func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[key]++
	return s.counters[key], nil
}
