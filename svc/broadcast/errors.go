package broadcast

import "errors"

var (
	ErrInvalidRequest = errors.New("broadcast: invalid request")
	ErrAlreadyRunning = errors.New("broadcast: notification is already being sent")
	ErrReportNotFound = errors.New("broadcast: delivery report not found")
	ErrUserNotFound   = errors.New("broadcast: user not found")
	ErrDirectory      = errors.New("broadcast: recipient directory query failed")
	ErrReportStore    = errors.New("broadcast: report store failed")
)
