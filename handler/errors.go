package handler

import "errors"

var (
	// ErrNilResponse indicates a handler returned nil instead of a Response
	ErrNilResponse = errors.New("handler returned nil response")
)

// HTTPError carries a status code to the error handler.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Err }

// NewHTTPError wraps err with an HTTP status and a client-safe message.
func NewHTTPError(code int, message string, err error) HTTPError {
	return HTTPError{Code: code, Message: message, Err: err}
}
