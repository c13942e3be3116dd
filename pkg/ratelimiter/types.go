package ratelimiter

import "time"

type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // negative when the request was rejected
	ResetAt   time.Time // next refill
}

func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

type Config struct {
	Capacity       int // burst limit
	RefillRate     int // tokens added per interval
	RefillInterval time.Duration
}
