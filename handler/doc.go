// Package handler provides typed HTTP handlers: a request struct is bound by
// one or more binders, the handler returns a Response, and binding or
// rendering failures go to a pluggable ErrorHandler.
package handler
