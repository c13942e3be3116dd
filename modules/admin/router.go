package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lottomart/notifier/handler"
	"github.com/lottomart/notifier/pkg/clientip"
	"github.com/lottomart/notifier/pkg/jwt"
	"github.com/lottomart/notifier/pkg/logger"
	"github.com/lottomart/notifier/pkg/ratelimiter"
	"github.com/lottomart/notifier/pkg/rbac"
	"github.com/lottomart/notifier/pkg/requestid"
	"github.com/lottomart/notifier/svc/broadcast"
)

const (
	PermissionBroadcast  = "notifications.broadcast"
	PermissionReadReport = "notifications.read"
)

// Broadcaster is the part of broadcast.Service the admin API drives.
type Broadcaster interface {
	Send(ctx context.Context, req broadcast.Request) (broadcast.Result, error)
	Report(ctx context.Context, notificationID string) (broadcast.DeliveryReport, error)
}

// RouterOptions wires the admin API. Limiter is optional; every other
// field is required.
type RouterOptions struct {
	Service    Broadcaster
	Tokens     *jwt.Service
	Authorizer *rbac.Authorizer
	Limiter    ratelimiter.RateLimiter
	Logger     *slog.Logger
}

// Router mounts the admin notification endpoints:
//
//	POST /send-notification
//	GET  /notifications/{id}/report
//
// Every route requires a bearer token whose role holds the route permission.
//
//	r := chi.NewRouter()
//	r.Mount("/admin", admin.Router(admin.RouterOptions{...}))
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("admin"))
	h := &handlers{svc: opts.Service, logger: log}

	r := chi.NewRouter()
	r.Use(jwt.Middleware(opts.Tokens, h.unauthorized))

	send := r.With(rbac.Require(opts.Authorizer, PermissionBroadcast, callerRole, h.forbidden))
	if opts.Limiter != nil {
		send = send.With(ratelimiter.Middleware(opts.Limiter, callerKey,
			ratelimiter.WithErrorResponder(h.rateLimited),
			ratelimiter.WithFallbackKey(ipKey),
		))
	}
	send.Post("/send-notification", handler.Wrap(
		handler.HandlerFunc[handler.Context, broadcast.Request](h.send),
		handler.WithBinders[handler.Context, broadcast.Request](bindJSON),
		handler.WithDecorators[handler.Context, broadcast.Request](h.audit),
		handler.WithErrorHandler[handler.Context, broadcast.Request](h.bindError),
	))

	r.With(rbac.Require(opts.Authorizer, PermissionReadReport, callerRole, h.forbidden)).
		Get("/notifications/{id}/report", handler.Wrap(
			handler.HandlerFunc[handler.Context, reportRequest](h.report),
			handler.WithErrorHandler[handler.Context, reportRequest](handler.NewErrorHandler[handler.Context](log, nil)),
		))

	return r
}

func callerRole(r *http.Request) (string, bool) {
	c, ok := jwt.ClaimsFromContext(r.Context())
	if !ok || c.Role == "" {
		return "", false
	}
	return c.Role, true
}

// callerKey rate limits per admin subject.
func callerKey(r *http.Request) string {
	if c, ok := jwt.ClaimsFromContext(r.Context()); ok && c.Subject != "" {
		return "admin:" + c.Subject
	}
	return ""
}

func ipKey(r *http.Request) string {
	if ip := clientip.KeyFunc(r); ip != "" {
		return "ip:" + ip
	}
	return ""
}

func (h *handlers) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.LogAttrs(r.Context(), slog.LevelWarn, "admin request unauthorized",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Error(errors.Join(ErrUnauthorized, err)),
	)
	_ = failure(http.StatusUnauthorized, "Unauthorized").Render(w, r)
}

func (h *handlers) forbidden(w http.ResponseWriter, r *http.Request, err error) {
	role, _ := callerRole(r)
	h.logger.LogAttrs(r.Context(), slog.LevelWarn, "admin request forbidden",
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.Role(role),
		logger.Error(errors.Join(ErrForbidden, err)),
	)
	_ = failure(http.StatusForbidden, "Admin access required").Render(w, r)
}

func (h *handlers) rateLimited(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result, err error) {
	if err != nil {
		h.logger.LogAttrs(r.Context(), slog.LevelError, "rate limiter failed",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
		)
		_ = internalError().Render(w, r)
		return
	}
	_ = failure(http.StatusTooManyRequests, "Too many requests").Render(w, r)
}
