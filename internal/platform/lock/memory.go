package lock

import (
	"context"
	"sync"
	"time"
)

type memoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryEntry
	token uint64
}

type memoryEntry struct {
	token     uint64
	expiresAt time.Time
}

// NewMemoryLocker returns a process-local Locker. Keys expire after their ttl
// like the redis implementation.
func NewMemoryLocker() Locker {
	return &memoryLocker{held: make(map[string]memoryEntry)}
}

func (l *memoryLocker) TryObtain(_ context.Context, key string, ttl time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if e, ok := l.held[key]; ok && now.Before(e.expiresAt) {
		return nil, ErrNotObtained
	}
	l.token++
	l.held[key] = memoryEntry{token: l.token, expiresAt: now.Add(ttl)}
	return &memoryLease{locker: l, key: key, token: l.token}, nil
}

func (l *memoryLocker) Obtain(ctx context.Context, key string, ttl, wait time.Duration) (Lease, error) {
	deadline := time.Now().Add(wait)
	for {
		lease, err := l.TryObtain(ctx, key, ttl)
		if err != ErrNotObtained {
			return lease, err
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, ErrNotObtained
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

type memoryLease struct {
	locker *memoryLocker
	key    string
	token  uint64
}

func (m *memoryLease) Release(_ context.Context) error {
	m.locker.mu.Lock()
	defer m.locker.mu.Unlock()

	e, ok := m.locker.held[m.key]
	if !ok || e.token != m.token {
		return ErrNotObtained
	}
	delete(m.locker.held, m.key)
	return nil
}
