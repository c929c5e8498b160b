// Package lock provides per-key mutual exclusion for long-running project
// operations (code generation, chat refinement).
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLocked = errors.New("lock is already held")

// Unlock releases a held lock. It is safe to call more than once.
type Unlock func(ctx context.Context) error

type Locker interface {
	// TryLock acquires key without waiting. It returns ErrLocked when another
	// holder has it. ttl bounds how long a crashed holder can block others.
	TryLock(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

// MemoryLocker is a single-process Locker.
type MemoryLocker struct {
	mu      sync.Mutex
	held    map[string]memoryLease
	nowFunc func() time.Time
	nextID  uint64
}

type memoryLease struct {
	id      uint64
	expires time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		held:    make(map[string]memoryLease),
		nowFunc: time.Now,
	}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (Unlock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if lease, ok := l.held[key]; ok && now.Before(lease.expires) {
		return nil, ErrLocked
	}

	l.nextID++
	id := l.nextID
	l.held[key] = memoryLease{id: id, expires: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if lease, ok := l.held[key]; ok && lease.id == id {
			delete(l.held, key)
		}
		return nil
	}, nil
}
