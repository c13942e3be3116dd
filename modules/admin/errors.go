package admin

import "errors"

var (
	ErrUnauthorized = errors.New("admin: unauthorized")
	ErrForbidden    = errors.New("admin: forbidden")
	ErrRateLimited  = errors.New("admin: too many requests")
)
