package ratelimiter

import (
	"context"
	"time"
)

// Store persists bucket state. ConsumeTokens refills the bucket, then takes
// tokens only if enough are left; remaining is negative on rejection.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}
