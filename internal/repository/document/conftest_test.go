package document

import (
	"context"
	"strings"
)

// mockStore is an in-memory store stand-in recording calls for assertions.
type mockStore struct {
	hashes   map[string]map[string]string
	counters map[string]int64

	hsetCalls int
	delCalls  []string

	hsetErr error
	scanErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		hashes:   make(map[string]map[string]string),
		counters: make(map[string]int64),
	}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	m.hsetCalls++
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	m.delCalls = append(m.delCalls, key)
	delete(m.hashes, key)
	delete(m.counters, key)
	return nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.hashes[key]
	return ok, nil
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *mockStore) Incr(_ context.Context, key string) (int64, error) {
	m.counters[key]++
	return m.counters[key], nil
}
