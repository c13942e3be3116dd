package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ErrorCode records a stable, grep-able failure code under the key "error_code".
func ErrorCode(code string) slog.Attr {
	return slog.String("error_code", code)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Role records a role name under the key "role".
func Role(role string) slog.Attr {
	return slog.String("role", role)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// NotificationID records the broadcast identifier under the key "notification_id".
func NotificationID(id string) slog.Attr {
	return slog.String("notification_id", id)
}

// Channel records the delivery channel (push, email, in_app) under the key "channel".
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// Audience records the audience segment under the key "audience".
func Audience(segment string) slog.Attr {
	return slog.String("audience", segment)
}

// Batch groups the chunk position as batch.index and batch.total.
// Index is reported 1-based so log lines read "batch 1 of 3".
func Batch(index, total int) slog.Attr {
	return Group("batch",
		slog.Int("index", index+1),
		slog.Int("total", total),
	)
}

// Count records a generic counter under the provided key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Provider records the external provider name under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
