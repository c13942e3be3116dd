package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lottomart/notifier/handler"
	"github.com/lottomart/notifier/pkg/binder"
	"github.com/lottomart/notifier/pkg/jwt"
	"github.com/lottomart/notifier/pkg/logger"
	"github.com/lottomart/notifier/pkg/requestid"
	"github.com/lottomart/notifier/pkg/validator"
	"github.com/lottomart/notifier/svc/broadcast"
)

var bindJSON = binder.JSON()

type handlers struct {
	svc    Broadcaster
	logger *slog.Logger
}

type statsBody struct {
	TotalRecipients   int     `json:"totalRecipients"`
	SentCount         int     `json:"sentCount"`
	FailedCount       int     `json:"failedCount"`
	DeliveryRate      float64 `json:"deliveryRate"`
	FailedTokensCount int     `json:"failedTokensCount"`
}

type sendResponse struct {
	Success        bool      `json:"success"`
	NotificationID string    `json:"notificationId"`
	Stats          statsBody `json:"stats"`
	Message        string    `json:"message"`
}

type errorBody struct {
	Success        bool              `json:"success"`
	Error          string            `json:"error"`
	Fields         map[string]string `json:"fields,omitempty"`
	ValidAudiences []string          `json:"validAudiences,omitempty"`
}

type reportRequest struct{}

type reportResponse struct {
	Success bool                     `json:"success"`
	Report  broadcast.DeliveryReport `json:"report"`
}

func failure(status int, msg string) handler.Response {
	return handler.JSON(errorBody{Error: msg}, handler.WithJSONStatus(status))
}

func internalError() handler.Response {
	return handler.JSON(map[string]string{"error": "internal server error"},
		handler.WithJSONStatus(http.StatusInternalServerError))
}

func (h *handlers) send(ctx handler.Context, req broadcast.Request) handler.Response {
	res, err := h.svc.Send(ctx, req)
	if err != nil {
		return h.sendError(ctx, req, err)
	}

	r := res.Report
	return handler.JSON(sendResponse{
		Success:        true,
		NotificationID: r.NotificationID,
		Stats: statsBody{
			TotalRecipients:   r.TotalRecipients,
			SentCount:         r.SentCount,
			FailedCount:       r.FailedCount,
			DeliveryRate:      r.DeliveryRate,
			FailedTokensCount: len(r.FailedTokens),
		},
		Message: fmt.Sprintf("Notification sent to %d of %d recipients", r.SentCount, r.TotalRecipients),
	})
}

// audit records who asked for a broadcast before it runs.
func (h *handlers) audit(next handler.HandlerFunc[handler.Context, broadcast.Request]) handler.HandlerFunc[handler.Context, broadcast.Request] {
	return func(ctx handler.Context, req broadcast.Request) handler.Response {
		claims, _ := jwt.ClaimsFromContext(ctx)
		h.logger.LogAttrs(ctx, slog.LevelInfo, "admin broadcast requested",
			logger.RequestID(requestid.FromContext(ctx)),
			logger.UserID(claims.Subject),
			logger.Role(claims.Role),
			logger.NotificationID(req.NotificationID),
			logger.Audience(req.TargetAudience),
		)
		return next(ctx, req)
	}
}

func (h *handlers) sendError(ctx handler.Context, req broadcast.Request, err error) handler.Response {
	switch {
	case errors.Is(err, broadcast.ErrInvalidRequest):
		body := errorBody{Error: "Invalid notification request"}
		if ve := validator.ExtractValidationErrors(err); ve != nil {
			body.Fields = make(map[string]string, len(ve))
			for _, fe := range ve {
				body.Fields[fe.Field] = fe.Message
			}
			if ve.Has("targetAudience") {
				body.ValidAudiences = broadcast.SegmentNames()
			}
		}
		return handler.JSON(body, handler.WithJSONStatus(http.StatusBadRequest))

	case errors.Is(err, broadcast.ErrAlreadyRunning):
		return failure(http.StatusConflict, "Notification is already being sent")

	default:
		claims, _ := jwt.ClaimsFromContext(ctx)
		h.logger.LogAttrs(ctx, slog.LevelError, "broadcast failed",
			logger.RequestID(requestid.FromContext(ctx)),
			logger.NotificationID(req.NotificationID),
			logger.Audience(req.TargetAudience),
			logger.UserID(claims.Subject),
			logger.Error(err),
		)
		return internalError()
	}
}

// bindError answers malformed bodies with 400.
func (h *handlers) bindError(ctx handler.Context, err error) {
	h.logger.LogAttrs(ctx, slog.LevelWarn, "invalid request body",
		logger.RequestID(requestid.FromContext(ctx)),
		logger.Error(err),
	)

	msg := "Invalid request body"
	if errors.Is(err, binder.ErrBodyTooLarge) {
		msg = "Request body too large"
	}
	_ = failure(http.StatusBadRequest, msg).Render(ctx.ResponseWriter(), ctx.Request())
}

func (h *handlers) report(ctx handler.Context, _ reportRequest) handler.Response {
	id := chi.URLParam(ctx.Request(), "id")
	report, err := h.svc.Report(ctx, id)
	switch {
	case errors.Is(err, broadcast.ErrReportNotFound):
		return failure(http.StatusNotFound, "Report not found")
	case err != nil:
		h.logger.LogAttrs(ctx, slog.LevelError, "report lookup failed",
			logger.RequestID(requestid.FromContext(ctx)),
			logger.NotificationID(id),
			logger.Error(err),
		)
		return internalError()
	}
	return handler.JSON(reportResponse{Success: true, Report: report})
}
