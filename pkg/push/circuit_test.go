package push

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cb := NewCircuitBreaker(2, 2, time.Minute)
	cb.now = func() time.Time { return now }

	assert.Equal(t, CircuitClosed, cb.State())
	cb.RecordFailure()
	assert.True(t, cb.Allow())
	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
	assert.False(t, cb.Allow())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, CircuitHalfOpen, cb.State())
	assert.True(t, cb.Allow())

	// A failed probe reopens immediately.
	cb.RecordFailure()
	assert.False(t, cb.Allow())

	now = now.Add(2 * time.Minute)
	assert.True(t, cb.Allow())
	cb.RecordSuccess()
	assert.Equal(t, CircuitHalfOpen, cb.State())
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())

	cb.RecordFailure()
	cb.RecordFailure()
	cb.Reset()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	b := ExponentialBackoff{Initial: 100 * time.Millisecond, Max: time.Second}
	assert.Equal(t, time.Duration(0), b.NextInterval(0))
	assert.Equal(t, 100*time.Millisecond, b.NextInterval(1))
	assert.Equal(t, 200*time.Millisecond, b.NextInterval(2))
	assert.Equal(t, 400*time.Millisecond, b.NextInterval(3))
	assert.Equal(t, time.Second, b.NextInterval(10))

	jittered := ExponentialBackoff{Initial: 100 * time.Millisecond, Max: time.Second, Jitter: 0.5}
	for range 20 {
		d := jittered.NextInterval(1)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}
