package engine

import (
	"sort"
	"sync"

	"github.com/nvkalinin/openhours/store"
)

// Memory хранит расписания в памяти. Читатели REST API и фоновое обновление
// работают из разных горутин, доступ к таблице под RWMutex.
type Memory struct {
	mu    sync.RWMutex
	store map[string]*store.Schedule
}

func NewMemory() *Memory {
	return &Memory{
		store: make(map[string]*store.Schedule, 8),
	}
}

func (m *Memory) Find(name string) (*store.Schedule, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.store[name]
	return s, ok
}

func (m *Memory) Put(name string, s *store.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store[name] = s
	return nil
}

func (m *Memory) Names() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.store))
	for name := range m.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
