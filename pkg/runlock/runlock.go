package runlock

import (
	"context"
	"time"
)

// ReleaseFunc frees a held lock. Releasing a lock that already expired or
// was taken over by another holder is a no-op.
type ReleaseFunc func(ctx context.Context) error

// Locker grants exclusive runs per key. Acquire fails with ErrLocked while
// another holder owns the key; ttl bounds how long a crashed holder blocks it.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}
