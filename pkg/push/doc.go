// Package push sends device push notifications through an HTTP gateway.
//
// Each Send posts one JSON message and retries gateway-side failures (5xx,
// 408, 425, 429, network errors) with exponential backoff. A circuit breaker
// opens after repeated gateway failures; while open, Available returns
// ErrCircuitOpen so callers can switch to their fallback mode for a whole
// batch instead of failing token by token. Token rejections (400, 404, 410)
// do not count against the breaker.
package push
