// Package binder decodes HTTP request bodies into Go structs.
//
// JSON binding is strict: the Content-Type must be application/json, unknown
// fields are rejected, trailing data after the object is rejected and the
// body is capped at DefaultMaxJSONSize unless WithMaxSize is given.
//
//	bind := binder.JSON()
//	var req BroadcastRequest
//	if err := bind(r, &req); err != nil {
//		// errors.Is(err, binder.ErrFailedToParseJSON) etc.
//	}
package binder
