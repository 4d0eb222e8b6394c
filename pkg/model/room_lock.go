package model

import "time"

// RoomLock is the persisted form of an advisory lock on a mutable resource,
// usually a room. The document id doubles as the resource key, so the
// collection's primary-key constraint is what makes acquisition atomic.
// A lock whose ExpiresAt has passed is abandoned and reclaimable by anyone.
type RoomLock struct {
	ResourceKey string    `bson:"_id" json:"resource_key"`
	Holder      string    `bson:"holder" json:"holder"`
	Token       string    `bson:"token" json:"token"`
	AcquiredAt  time.Time `bson:"acquired_at" json:"acquired_at"`
	ExpiresAt   time.Time `bson:"expires_at" json:"expires_at"`
}

// Live reports whether the lock still excludes other acquirers at the given
// instant.
func (l *RoomLock) Live(now time.Time) bool {
	return now.Before(l.ExpiresAt)
}
