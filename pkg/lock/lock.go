// Package lock provides the advisory lock manager that serializes mutating
// operations on a shared resource. Acquisition never blocks or queues: a
// caller that loses the race gets the busy outcome immediately and surfaces
// it to its own caller, typically as an HTTP 409.
package lock

import (
	"context"
	"time"

	"roomdesk/pkg/model"
)

// Manager grants at most one live lock per resource key for a bounded
// duration.
//
// Acquire returns (lock, true, nil) on success and (nil, false, nil) when a
// live lock already exists for the key; contention is a normal outcome, not
// an error. A non-nil error means the backing store failed and the caller
// must fail closed. Release only removes the lock if it still carries the
// caller's token: a holder whose lock expired and was reclaimed must not be
// able to delete the successor's lock. Release is idempotent — releasing a
// key that holds no lock, or whose token no longer matches, succeeds.
// IsLocked is advisory only; it may race with a concurrent acquire or
// expiry and must never be used for correctness.
type Manager interface {
	Acquire(ctx context.Context, resourceKey, holder string, ttl time.Duration) (*model.RoomLock, bool, error)
	Release(ctx context.Context, resourceKey, token string) error
	IsLocked(ctx context.Context, resourceKey string) (bool, error)
}
