package push

import "errors"

var (
	ErrNotConfigured  = errors.New("push: gateway not configured")
	ErrCircuitOpen    = errors.New("push: circuit breaker is open")
	ErrEmptyToken     = errors.New("push: empty device token")
	ErrInvalidToken   = errors.New("push: device token rejected")
	ErrPermanent      = errors.New("push: permanent delivery failure")
	ErrTemporary      = errors.New("push: temporary delivery failure")
	ErrDeliveryFailed = errors.New("push: delivery failed")
	ErrTimeout        = errors.New("push: request timeout")
)
