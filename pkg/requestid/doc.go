// Package requestid attaches a correlation ID to every HTTP request and makes
// it available to structured logs through LoggerExtractor.
package requestid
