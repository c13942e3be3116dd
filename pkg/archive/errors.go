package archive

import "errors"

var (
	ErrInvalidKey         = errors.New("archive: invalid key")
	ErrNotFound           = errors.New("archive: object not found")
	ErrWriteFailed        = errors.New("archive: write failed")
	ErrReadFailed         = errors.New("archive: read failed")
	ErrBucketNotFound     = errors.New("archive: bucket not found")
	ErrAccessDenied       = errors.New("archive: access denied")
	ErrServiceUnavailable = errors.New("archive: service temporarily unavailable")
	ErrOperationTimeout   = errors.New("archive: operation timed out")
	ErrOperationCanceled  = errors.New("archive: operation canceled")
	ErrInvalidConfig      = errors.New("archive: invalid configuration")
	ErrFailedToLoadConfig = errors.New("archive: failed to load AWS config")
)
