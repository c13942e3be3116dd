package runlock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type holder struct {
	token       string
	lockedUntil time.Time
}

// MemoryLocker is a process-local Locker for development and tests.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]holder
	now   func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]holder), now: time.Now}
}

func (m *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if h, ok := m.locks[key]; ok && now.Before(h.lockedUntil) {
		return nil, ErrLocked
	}

	token := uuid.NewString()
	m.locks[key] = holder{token: token, lockedUntil: now.Add(ttl)}

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if h, ok := m.locks[key]; ok && h.token == token {
			delete(m.locks, key)
		}
		return nil
	}, nil
}
