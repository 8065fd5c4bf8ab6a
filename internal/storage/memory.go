package storage

import "sync"

// MemoryStore is an in-process Store. Failures can be injected with
// FailWrites and FailReads to exercise error paths.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string

	// FailWrites, when non-nil, is returned by Set and Delete.
	FailWrites error
	// FailReads, when non-nil, is returned by Get.
	FailReads error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

// Get implements Store.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads != nil {
		return "", false, m.FailReads
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.entries[key] = value
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	delete(m.entries, key)
	return nil
}
