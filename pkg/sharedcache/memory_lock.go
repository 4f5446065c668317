package sharedcache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryLocker provides named locks within one process
type MemoryLocker struct {
	mutex sync.Mutex
	locks map[string]chan struct{}
	wait  time.Duration
}

func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{
		locks: map[string]chan struct{}{},
		wait:  wait,
	}
}

func (l *MemoryLocker) semaphore(name string) chan struct{} {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	semaphore, exists := l.locks[name]
	if !exists {
		semaphore = make(chan struct{}, 1)
		l.locks[name] = semaphore
	}

	return semaphore
}

func (l *MemoryLocker) Acquire(ctx context.Context, name string) (Lock, error) {
	semaphore := l.semaphore(name)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case semaphore <- struct{}{}:
		return &memoryLock{name: name, semaphore: semaphore}, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, name)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type memoryLock struct {
	name      string
	semaphore chan struct{}
}

func (l *memoryLock) Release(_ context.Context) error {
	select {
	case <-l.semaphore:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrLockNotHeld, l.name)
	}
}
