package broadcast

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lottomart/notifier/pkg/logger"
)

// InAppWriter appends an announcement record to every recipient's profile.
type InAppWriter struct {
	inbox       Inbox
	workers     int
	callTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

func NewInAppWriter(inbox Inbox, cfg Config, log *slog.Logger) *InAppWriter {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.Discard()
	}
	return &InAppWriter{
		inbox:       inbox,
		workers:     cfg.Workers,
		callTimeout: cfg.CallTimeout,
		now:         time.Now,
		logger:      log,
	}
}

// InAppContent describes the record written for one broadcast.
type InAppContent struct {
	NotificationID string
	Title          string
	Message        string
}

// WriteAll writes to every recipient. Failures are logged and counted,
// never returned.
func (w *InAppWriter) WriteAll(ctx context.Context, recipients []string, content InAppContent) InAppResult {
	record := InAppNotification{
		ID:        content.NotificationID,
		Title:     content.Title,
		Message:   content.Message,
		Read:      false,
		CreatedAt: w.now().UTC(),
		Type:      InAppType,
	}

	var failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(w.workers)
	for _, userID := range recipients {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, w.callTimeout)
			defer cancel()

			if err := w.inbox.Append(callCtx, userID, record); err != nil {
				failed.Add(1)
				w.logger.LogAttrs(ctx, slog.LevelWarn, "in-app notification write failed",
					logger.ErrorCode("inapp.write_failed"),
					logger.UserID(userID),
					logger.NotificationID(content.NotificationID),
					logger.Channel(string(ChannelInApp)),
					logger.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	n := int(failed.Load())
	return InAppResult{Attempted: len(recipients), Written: len(recipients) - n, Failed: n}
}
