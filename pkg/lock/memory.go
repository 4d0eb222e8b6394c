package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"roomdesk/pkg/model"
)

// MemoryManager is the single-process Manager. The whole check-and-insert
// runs under one mutex, which gives the same atomicity the Mongo store gets
// from its unique-key constraint. Expired entries are reclaimed lazily on
// the next Acquire for the same key and swept by an optional janitor.
type MemoryManager struct {
	mu     sync.Mutex
	locks  map[string]*model.RoomLock
	stopCh chan struct{}
	once   sync.Once
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		locks:  make(map[string]*model.RoomLock),
		stopCh: make(chan struct{}),
	}
}

// StartJanitor launches a background sweep that removes expired entries so
// the map does not grow unbounded. Correctness never depends on it: Acquire
// treats an expired entry as absent.
func (m *MemoryManager) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep(time.Now())
			case <-m.stopCh:
				return
			}
		}
	}()
}

func (m *MemoryManager) Stop() {
	m.once.Do(func() { close(m.stopCh) })
}

func (m *MemoryManager) Acquire(_ context.Context, resourceKey, holder string, ttl time.Duration) (*model.RoomLock, bool, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.locks[resourceKey]; ok && existing.Live(now) {
		return nil, false, nil
	}

	acquired := &model.RoomLock{
		ResourceKey: resourceKey,
		Holder:      holder,
		Token:       uuid.NewString(),
		AcquiredAt:  now,
		ExpiresAt:   now.Add(ttl),
	}
	m.locks[resourceKey] = acquired

	return acquired, true, nil
}

func (m *MemoryManager) Release(_ context.Context, resourceKey, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.locks[resourceKey]; ok && existing.Token == token {
		delete(m.locks, resourceKey)
	}
	return nil
}

func (m *MemoryManager) IsLocked(_ context.Context, resourceKey string) (bool, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.locks[resourceKey]
	return ok && existing.Live(now), nil
}

func (m *MemoryManager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, l := range m.locks {
		if !l.Live(now) {
			delete(m.locks, key)
		}
	}
}
