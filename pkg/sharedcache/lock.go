package sharedcache

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var ErrLockTimeout = errors.New("timed out acquiring lock")
var ErrLockNotHeld = errors.New("lock is no longer held")

// lockKeyPrefix keeps lock keys apart from data keys
const lockKeyPrefix = "LOCK_"

type Lock interface {
	Release(ctx context.Context) error
}

type Locker interface {
	// Acquire blocks until the named lock is held, the locker's wait budget is spent (ErrLockTimeout)
	// or ctx is done
	Acquire(ctx context.Context, name string) (Lock, error)
}

// WithLock runs fn while holding the named lock. The lock is released on every return path of fn,
// including panics. A failed release is only logged: the lock lease expires on its own.
func WithLock(ctx context.Context, locker Locker, name string, fn func(ctx context.Context) error) error {
	lock, err := locker.Acquire(ctx, name)
	if err != nil {
		return fmt.Errorf("acquiring lock %s: %w", name, err)
	}

	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Str("lock", name).Msg("Failed to release lock")
		}
	}()

	return fn(ctx)
}
