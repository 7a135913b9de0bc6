package shared

import (
	"context"
	"time"
)

// ClaimStore records short-lived claims on a key so that concurrent processes do
// not perform the same side effect twice
type ClaimStore interface {
	// Claim marks key as taken for ttl.
	// Returns true if the claim was newly taken, false if it was already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops a claim so the key can be taken again
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// RunLock serializes a unit of work across callers. TryAcquire never blocks.
type RunLock interface {
	// TryAcquire takes the lock for key when free. The returned release function
	// must be called once the work completes.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}
