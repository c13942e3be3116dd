package push

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff returns the wait before retry number attempt (1-based).
type Backoff interface {
	NextInterval(attempt int) time.Duration
}

// ExponentialBackoff grows Initial by Multiplier per attempt, capped at Max,
// with optional +/- Jitter fraction.
type ExponentialBackoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

func (e ExponentialBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := cmpOr(e.Initial, 200*time.Millisecond)
	maxInterval := cmpOr(e.Max, 5*time.Second)
	multiplier := e.Multiplier
	if multiplier == 0 {
		multiplier = 2
	}

	interval := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	if e.Jitter > 0 {
		interval *= 1 + (rand.Float64()*2-1)*e.Jitter
	}
	return min(time.Duration(interval), maxInterval)
}

func cmpOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
