// Package async provides typed futures. The broadcast service starts the
// in-app writer with Async so it runs alongside the push batches, then awaits
// it before building the delivery report.
package async
