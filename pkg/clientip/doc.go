// Package clientip resolves the caller's IP address from proxy headers or
// the connection, and carries it in the request context for logging and
// rate limiting.
package clientip
