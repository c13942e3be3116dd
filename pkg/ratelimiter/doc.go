// Package ratelimiter implements a token bucket limiter with in-memory and
// Redis stores plus chi-compatible HTTP middleware.
//
// The admin API limits broadcast requests per authenticated admin:
//
//	bucket, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client, "notifier:"), ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     10,
//		RefillInterval: time.Minute,
//	})
//	r.Use(ratelimiter.Middleware(bucket, adminKey, ratelimiter.WithErrorResponder(writeJSON)))
//
// A rejected request does not drain the bucket further; Result.Remaining is
// negative and Result.RetryAfter tells the client when to come back.
package ratelimiter
