package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lottomart/notifier/pkg/logger"
	"github.com/lottomart/notifier/pkg/requestid"
)

// ErrorMapper turns an error into a status code and a JSON body.
type ErrorMapper func(err error) (status int, body any)

// defaultErrorHandler uses HTTPError's code and message when present,
// otherwise 500 with a generic message.
func defaultErrorHandler[C Context](ctx C, err error) {
	status, body := defaultErrorMapper(err)
	_ = JSON(body, WithJSONStatus(status)).Render(ctx.ResponseWriter(), ctx.Request())
}

func defaultErrorMapper(err error) (int, any) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, map[string]string{"error": httpErr.Message}
	}
	return http.StatusInternalServerError, map[string]string{"error": http.StatusText(http.StatusInternalServerError)}
}

// NewErrorHandler returns an ErrorHandler that maps err with mapper (or the
// default mapping when nil), logs it at warn for 4xx and error for 5xx, and
// writes the JSON body.
func NewErrorHandler[C Context](log *slog.Logger, mapper ErrorMapper) ErrorHandler[C] {
	if mapper == nil {
		mapper = defaultErrorMapper
	}
	if log == nil {
		log = slog.Default()
	}
	return func(ctx C, err error) {
		status, body := mapper(err)
		r := ctx.Request()

		log.LogAttrs(ctx, logLevel(status), "request failed",
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.RequestID(requestid.FromContext(ctx)),
			logger.Error(err),
		)

		_ = JSON(body, WithJSONStatus(status)).Render(ctx.ResponseWriter(), r)
	}
}

func logLevel(status int) slog.Level {
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}
