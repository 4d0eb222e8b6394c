package service

import "sync"

// manualOverrides tracks rooms an operator has marked occupied outside any
// reservation, for maintenance or walk-ins. The flag stays authoritative
// until explicitly cleared.
type manualOverrides struct {
	mu    sync.RWMutex
	rooms map[string]bool
}

func newManualOverrides() manualOverrides {
	return manualOverrides{rooms: make(map[string]bool)}
}

func (m *manualOverrides) set(roomID string, occupied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if occupied {
		m.rooms[roomID] = true
	} else {
		delete(m.rooms, roomID)
	}
}

func (m *manualOverrides) get(roomID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomID]
}
