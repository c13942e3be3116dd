// Package httpserver runs an http.Handler with graceful shutdown on context
// cancellation or SIGINT/SIGTERM, and provides liveness/readiness handlers
// backed by dependency checks.
package httpserver
