package session

import "sync"

// Manager keeps one Store per guest session key. Stores are created on
// first use (scan resolution) and dropped on session reset.
type Manager struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

func NewManager() *Manager {
	return &Manager{stores: make(map[string]*Store)}
}

func (m *Manager) GetOrCreate(key string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[key]; ok {
		return store
	}
	store := NewStore()
	m.stores[key] = store
	return store
}

func (m *Manager) Get(key string) (*Store, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	store, ok := m.stores[key]
	return store, ok
}

func (m *Manager) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, key)
}
