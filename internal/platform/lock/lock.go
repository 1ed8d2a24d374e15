// Package lock provides short-lived named locks used to serialise work on a
// single resource across service replicas.
package lock

import (
	"context"
	"errors"
	"time"
)

var ErrNotObtained = errors.New("lock not obtained")

type Lease interface {
	Release(ctx context.Context) error
}

type Locker interface {
	// TryObtain fails fast with ErrNotObtained when key is held.
	TryObtain(ctx context.Context, key string, ttl time.Duration) (Lease, error)
	// Obtain retries until wait elapses, then returns ErrNotObtained.
	Obtain(ctx context.Context, key string, ttl, wait time.Duration) (Lease, error)
}

const retryInterval = 50 * time.Millisecond
