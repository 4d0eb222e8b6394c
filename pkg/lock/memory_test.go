package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"roomdesk/pkg/model"
)

func TestAcquire_MutualExclusion(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	// Run with -race: many goroutines fight for one key, exactly one may win.
	for iteration := 0; iteration < 20; iteration++ {
		var winners int64
		var winner atomic.Pointer[model.RoomLock]
		var wg sync.WaitGroup

		for g := 0; g < 16; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				won, ok, err := m.Acquire(ctx, "room-101", "actor", time.Minute)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if ok {
					atomic.AddInt64(&winners, 1)
					winner.Store(won)
				}
			}()
		}
		wg.Wait()

		if winners != 1 {
			t.Fatalf("iteration %d: expected exactly 1 winner, got %d", iteration, winners)
		}

		if err := m.Release(ctx, "room-101", winner.Load().Token); err != nil {
			t.Fatalf("release failed: %v", err)
		}
	}
}

func TestAcquire_SecondAcquirerRejected(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	first, ok, err := m.Acquire(ctx, "room-7", "front-desk", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if first.Holder != "front-desk" || first.Token == "" {
		t.Errorf("unexpected lock contents: %+v", first)
	}

	second, ok, err := m.Acquire(ctx, "room-7", "housekeeping", time.Minute)
	if err != nil {
		t.Fatalf("second acquire errored: %v", err)
	}
	if ok || second != nil {
		t.Errorf("expected busy outcome, got lock %+v", second)
	}

	// A different key is an independent lock.
	_, ok, err = m.Acquire(ctx, "room-8", "housekeeping", time.Minute)
	if err != nil || !ok {
		t.Errorf("independent key should acquire: ok=%v err=%v", ok, err)
	}
}

func TestAcquire_SelfExpiry(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	_, ok, err := m.Acquire(ctx, "room-3", "crashed-session", 30*time.Millisecond)
	if err != nil || !ok {
		t.Fatalf("initial acquire: ok=%v err=%v", ok, err)
	}

	// Before expiry the key is still held.
	_, ok, _ = m.Acquire(ctx, "room-3", "other", time.Minute)
	if ok {
		t.Fatal("acquired before TTL elapsed")
	}

	time.Sleep(50 * time.Millisecond)

	reclaimed, ok, err := m.Acquire(ctx, "room-3", "other", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expired lock should be reclaimable: ok=%v err=%v", ok, err)
	}
	if reclaimed.Holder != "other" {
		t.Errorf("expected new holder, got %s", reclaimed.Holder)
	}
}

func TestRelease_Idempotent(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	held, ok, _ := m.Acquire(ctx, "room-9", "a", time.Minute)
	if !ok {
		t.Fatal("acquire failed")
	}

	if err := m.Release(ctx, "room-9", held.Token); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := m.Release(ctx, "room-9", held.Token); err != nil {
		t.Fatalf("second release must be a no-op, got: %v", err)
	}
	if err := m.Release(ctx, "never-acquired", "no-token"); err != nil {
		t.Fatalf("releasing unknown key must be a no-op, got: %v", err)
	}
}

func TestRelease_StaleTokenKeepsSuccessorLock(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	stale, ok, _ := m.Acquire(ctx, "room-12", "slow-request", 20*time.Millisecond)
	if !ok {
		t.Fatal("initial acquire failed")
	}

	time.Sleep(40 * time.Millisecond)

	successor, ok, _ := m.Acquire(ctx, "room-12", "next-request", time.Minute)
	if !ok {
		t.Fatal("expired lock should be reclaimable")
	}

	// The first holder's deferred release fires after its lock was
	// reclaimed; the successor's lock must survive it.
	if err := m.Release(ctx, "room-12", stale.Token); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	locked, _ := m.IsLocked(ctx, "room-12")
	if !locked {
		t.Fatal("stale release removed the successor's lock")
	}

	if err := m.Release(ctx, "room-12", successor.Token); err != nil {
		t.Fatalf("successor release: %v", err)
	}
	if locked, _ := m.IsLocked(ctx, "room-12"); locked {
		t.Fatal("successor release should remove its own lock")
	}
}

func TestIsLocked(t *testing.T) {
	m := NewMemoryManager()
	ctx := context.Background()

	locked, err := m.IsLocked(ctx, "room-5")
	if err != nil || locked {
		t.Fatalf("fresh key should be unlocked: locked=%v err=%v", locked, err)
	}

	if _, ok, _ := m.Acquire(ctx, "room-5", "a", 30*time.Millisecond); !ok {
		t.Fatal("acquire failed")
	}

	locked, _ = m.IsLocked(ctx, "room-5")
	if !locked {
		t.Error("expected locked after acquire")
	}

	time.Sleep(50 * time.Millisecond)

	locked, _ = m.IsLocked(ctx, "room-5")
	if locked {
		t.Error("expected unlocked after expiry")
	}
}

func TestJanitor_SweepsExpiredEntries(t *testing.T) {
	m := NewMemoryManager()
	defer m.Stop()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if _, ok, _ := m.Acquire(ctx, key, "h", 10*time.Millisecond); !ok {
			t.Fatalf("acquire %s failed", key)
		}
	}

	time.Sleep(20 * time.Millisecond)
	m.sweep(time.Now())

	m.mu.Lock()
	remaining := len(m.locks)
	m.mu.Unlock()

	if remaining != 0 {
		t.Errorf("expected empty lock table after sweep, got %d entries", remaining)
	}
}
