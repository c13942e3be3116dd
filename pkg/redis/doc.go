// Package redis connects to Redis with retries and provides a health check.
// The client backs the admin rate limiter and the per-notification run lock;
// both namespace their keys with Config.KeyPrefix.
package redis
