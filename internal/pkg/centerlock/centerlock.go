// Package centerlock serializes the allocation read-modify-write per
// center. Availability is computed from existing assignments and
// consumptions before new ones are written, so two concurrent bookings on
// the same center could otherwise both claim the last free unit.
package centerlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when another operation holds the center lock
// for longer than the acquisition timeout.
var ErrNotAcquired = errors.New("center lock not acquired")

const (
	keyPrefix    = "discope:booking:centerlock:"
	lockTTL      = 30 * time.Second
	retryEvery   = 100 * time.Millisecond
	acquireLimit = 10 * time.Second
)

// Locker acquires short-lived per-center locks in Redis.
type Locker struct {
	client *redis.Client
}

// NewLocker creates a Locker on the given Redis client.
func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Lease is one held lock. Release must be called when the allocation
// critical section ends; an expired lease releases itself through the TTL.
type Lease struct {
	client *redis.Client
	key    string
	token  string
}

// Acquire blocks until the center lock is obtained or the acquisition
// window elapses.
func (l *Locker) Acquire(ctx context.Context, centerID string) (*Lease, error) {
	key := keyPrefix + centerID
	token := uuid.New().String()

	deadline := time.Now().Add(acquireLimit)
	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire center lock %s: %w", centerID, err)
		}
		if ok {
			return &Lease{client: l.client, key: key, token: token}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: center %s", ErrNotAcquired, centerID)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryEvery):
		}
	}
}

// releaseScript deletes the key only when it still holds our token, so an
// expired lease never releases a successor's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Release frees the lock if it is still held by this lease.
func (le *Lease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, le.client, []string{le.key}, le.token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release center lock: %w", err)
	}
	return nil
}
