// Package logger wraps log/slog with functional options, attribute helpers
// and context extractors so every component of the notifier logs with the
// same keys.
//
// New builds a JSON or text handler, applies static attributes, and wraps it
// with LogHandlerDecorator which runs registered ContextExtractor callbacks
// (request id, environment) on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "notifier"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.ErrorContext(ctx, "push send failed",
//	    logger.NotificationID(id),
//	    logger.UserID(userID),
//	    logger.Channel("push"),
//	    logger.ErrorCode("push.send_failed"),
//	    logger.Error(err),
//	)
//
// Helpers such as Error and Errors return an empty attribute for nil errors,
// which slog drops, so callers never need a nil check.
package logger
