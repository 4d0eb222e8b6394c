package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"roomdesk/pkg/config"
	"roomdesk/pkg/lock"
	"roomdesk/pkg/model"
)

const LockCollectionName = "Room_locks"

// mongoLockManager implements lock.Manager on a Mongo collection whose
// document id is the resource key. The collection's primary-key constraint
// makes "insert if absent" a single indivisible step; a check-then-insert
// would let two acquirers both pass the check and is never used here.
type mongoLockManager struct {
	collection *mongo.Collection
}

func NewMongoLockManager(cfg *config.Config) lock.Manager {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLockManager{
		collection: db.Collection(LockCollectionName),
	}
}

func (m *mongoLockManager) Acquire(ctx context.Context, resourceKey, holder string, ttl time.Duration) (*model.RoomLock, bool, error) {
	now := time.Now().UTC()
	candidate := &model.RoomLock{
		ResourceKey: resourceKey,
		Holder:      holder,
		Token:       uuid.NewString(),
		AcquiredAt:  now,
		ExpiresAt:   now.Add(ttl),
	}

	_, err := m.collection.InsertOne(ctx, candidate)
	if err == nil {
		return candidate, true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("failed to insert lock for %s: %w", resourceKey, err)
	}

	// A document already exists. If its TTL has lapsed the holder is
	// considered crashed and the lock is reclaimable: replace it in one
	// conditional step keyed on the stale expiry so only one reclaimer can
	// win.
	filter := bson.M{
		"_id":        resourceKey,
		"expires_at": bson.M{"$lte": now},
	}
	res := m.collection.FindOneAndReplace(ctx, filter, candidate)
	if res.Err() != nil {
		if errors.Is(res.Err(), mongo.ErrNoDocuments) {
			// Still live: the normal busy outcome.
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to reclaim expired lock for %s: %w", resourceKey, res.Err())
	}

	return candidate, true, nil
}

func (m *mongoLockManager) Release(ctx context.Context, resourceKey, token string) error {
	// Matching on the token means a holder whose lock expired and was
	// reclaimed cannot delete the successor's lock. DeleteOne on a missing
	// or already-reclaimed document is a no-op, which is exactly the
	// idempotency Release promises.
	_, err := m.collection.DeleteOne(ctx, bson.M{"_id": resourceKey, "token": token})
	if err != nil {
		return fmt.Errorf("failed to release lock for %s: %w", resourceKey, err)
	}
	return nil
}

func (m *mongoLockManager) IsLocked(ctx context.Context, resourceKey string) (bool, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{
		"_id":        resourceKey,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	})
	if err != nil {
		return false, fmt.Errorf("failed to check lock for %s: %w", resourceKey, err)
	}
	return count > 0, nil
}
