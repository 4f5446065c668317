package sharedcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var errLockHeld = errors.New("lock held by another owner")

// Only the owner token may delete the lock key
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements named mutual exclusion with SET NX PX. The lease bounds how long a crashed
// holder can keep a lock; wait bounds how long Acquire retries.
type RedisLocker struct {
	client *redis.Client
	lease  time.Duration
	wait   time.Duration
}

func NewRedisLocker(client *redis.Client, lease time.Duration, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		lease:  lease,
		wait:   wait,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, name string) (Lock, error) {
	key := lockKeyPrefix + name
	token := uuid.NewString()

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.InitialInterval = 10 * time.Millisecond
	retryPolicy.MaxInterval = 500 * time.Millisecond
	retryPolicy.MaxElapsedTime = l.wait

	err := backoff.Retry(func() error {
		acquired, err := l.client.SetNX(ctx, key, token, l.lease).Result()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !acquired {
			return errLockHeld
		}

		return nil
	}, backoff.WithContext(retryPolicy, ctx))

	if errors.Is(err, errLockHeld) {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, name)
	}
	if err != nil {
		return nil, err
	}

	return &redisLock{client: l.client, key: key, token: token}, nil
}

type redisLock struct {
	client *redis.Client
	key    string
	token  string
}

func (l *redisLock) Release(ctx context.Context) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int64()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrLockNotHeld, l.key)
	}

	return nil
}
