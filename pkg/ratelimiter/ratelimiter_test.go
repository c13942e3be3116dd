package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/ratelimiter"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newBucket(t *testing.T, cfg ratelimiter.Config) (*ratelimiter.Bucket, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Now()}
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(clock.Now), ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	b, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return b, clock
}

func TestNewBucket_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ratelimiter.Config
	}{
		{"zero capacity", ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}},
		{"zero rate", ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}},
		{"zero interval", ratelimiter.Config{Capacity: 1, RefillRate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), tt.cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()

	b, clock := newBucket(t, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Minute})
	ctx := context.Background()

	for i := range 3 {
		res, err := b.Allow(ctx, "admin-1")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, 2-i, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := b.Allow(ctx, "admin-1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, -1, res.Remaining)

	// Rejections do not drain the bucket further.
	res, err = b.Allow(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, -1, res.Remaining)

	other, err := b.Allow(ctx, "admin-2")
	require.NoError(t, err)
	assert.True(t, other.Allowed())

	clock.Advance(time.Minute)
	res, err = b.Allow(ctx, "admin-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)
}

func TestBucket_RefillCapsAtCapacity(t *testing.T) {
	t.Parallel()

	b, clock := newBucket(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Second})
	ctx := context.Background()

	_, err := b.AllowN(ctx, "k", 2)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	res, err := b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
}

func TestBucket_AllowNInvalid(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	_, err := b.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

func TestBucket_CancelledContext(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Allow(ctx, "k")
	assert.ErrorIs(t, err, ratelimiter.ErrContextCancelled)
}

func TestBucket_Reset(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	ctx := context.Background()

	_, err := b.Allow(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, b.Reset(ctx, "k"))

	res, err := b.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestBucket_ConcurrentAllow(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 50, RefillRate: 1, RefillInterval: time.Hour})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := b.Allow(context.Background(), "shared")
			if err == nil && res.Allowed() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}
