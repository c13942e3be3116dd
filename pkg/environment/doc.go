// Package environment parses APP_ENV and carries the result through request
// contexts. Components that behave differently per environment receive the
// decision explicitly at construction; the context copy exists for logging.
package environment
