package runlock

import "errors"

var (
	ErrLocked      = errors.New("runlock: key is already locked")
	ErrInvalidTTL  = errors.New("runlock: ttl must be positive")
	ErrEmptyKey    = errors.New("runlock: empty key")
	ErrUnavailable = errors.New("runlock: lock store unavailable")
)
