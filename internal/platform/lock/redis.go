package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

type redisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(rdb *redis.Client) Locker {
	return &redisLocker{client: redislock.New(rdb)}
}

func (l *redisLocker) TryObtain(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	return l.obtain(ctx, key, ttl, nil)
}

func (l *redisLocker) Obtain(ctx context.Context, key string, ttl, wait time.Duration) (Lease, error) {
	retries := int(wait / retryInterval)
	if retries < 1 {
		retries = 1
	}
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), retries),
	}
	return l.obtain(ctx, key, ttl, opts)
}

func (l *redisLocker) obtain(ctx context.Context, key string, ttl time.Duration, opts *redislock.Options) (Lease, error) {
	lk, err := l.client.Obtain(ctx, key, ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, err
	}
	return lk, nil
}
