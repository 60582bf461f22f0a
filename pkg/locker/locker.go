// Package locker provides distributed locks so that periodic jobs run on one
// instance at a time.
package locker

import (
	"context"
	"time"
)

// DistributedLocker acquires and releases named locks shared by every
// instance. Implementations must be safe for concurrent use.
type DistributedLocker interface {
	// Acquire tries once to take the lock. It returns false without error when
	// another instance holds it. The lock expires after ttl if never released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a lock held by this instance. Releasing a lock that is not
	// held is a no-op.
	Release(ctx context.Context, key string) error
}
