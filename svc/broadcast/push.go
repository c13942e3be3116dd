package broadcast

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lottomart/notifier/pkg/logger"
	"github.com/lottomart/notifier/pkg/push"
)

// PushFallbackMode decides how a chunk is counted when the push provider is
// unavailable as a whole.
type PushFallbackMode uint8

const (
	// PushFallbackFail counts every token of the chunk as failed.
	PushFallbackFail PushFallbackMode = iota
	// PushFallbackSimulate counts every token of the chunk as sent.
	PushFallbackSimulate
)

func (m PushFallbackMode) String() string {
	switch m {
	case PushFallbackSimulate:
		return "simulate"
	case PushFallbackFail:
		return "fail"
	default:
		return "unknown"
	}
}

// PushDispatcher sends one push message per opted-in user of a chunk.
type PushDispatcher struct {
	prefs       PreferenceStore
	sender      push.Sender
	mode        PushFallbackMode
	workers     int
	callTimeout time.Duration
	logger      *slog.Logger
}

func NewPushDispatcher(prefs PreferenceStore, sender push.Sender, mode PushFallbackMode, cfg Config, log *slog.Logger) *PushDispatcher {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.Discard()
	}
	return &PushDispatcher{
		prefs:       prefs,
		sender:      sender,
		mode:        mode,
		workers:     cfg.Workers,
		callTimeout: cfg.CallTimeout,
		logger:      log,
	}
}

// PushContent is the title and body pushed to every device.
type PushContent struct {
	NotificationID string
	Title          string
	Body           string
}

// Dispatch delivers content to the chunk. Users without a token or with push
// disabled are skipped and not counted.
func (d *PushDispatcher) Dispatch(ctx context.Context, chunk []string, content PushContent) ChunkResult {
	targets := d.lookupTokens(ctx, chunk)
	if len(targets) == 0 {
		return ChunkResult{}
	}

	if err := d.available(); err != nil {
		return d.fallback(ctx, targets, err)
	}

	outcomes := make([]DeliveryOutcome, len(targets))
	g := new(errgroup.Group)
	g.SetLimit(d.workers)
	for i, t := range targets {
		g.Go(func() error {
			outcomes[i] = d.send(ctx, t, content)
			return nil
		})
	}
	_ = g.Wait()

	return reduceOutcomes(outcomes)
}

type pushTarget struct {
	userID string
	token  string
}

func (d *PushDispatcher) lookupTokens(ctx context.Context, chunk []string) []pushTarget {
	tokens := make([]string, len(chunk))
	g := new(errgroup.Group)
	g.SetLimit(d.workers)
	for i, userID := range chunk {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
			defer cancel()

			prefs, err := d.prefs.GetPreferences(callCtx, userID)
			if err != nil {
				d.logger.LogAttrs(ctx, slog.LevelWarn, "push preferences lookup failed",
					logger.ErrorCode("push.preferences_lookup_failed"),
					logger.UserID(userID),
					logger.Channel(string(ChannelPush)),
					logger.Error(err),
				)
				return nil
			}
			tokens[i] = prefs.PushTarget()
			return nil
		})
	}
	_ = g.Wait()

	targets := make([]pushTarget, 0, len(chunk))
	for i, token := range tokens {
		if token != "" {
			targets = append(targets, pushTarget{userID: chunk[i], token: token})
		}
	}
	return targets
}

func (d *PushDispatcher) available() error {
	if d.sender == nil {
		return push.ErrNotConfigured
	}
	return d.sender.Available()
}

func (d *PushDispatcher) fallback(ctx context.Context, targets []pushTarget, cause error) ChunkResult {
	d.logger.LogAttrs(ctx, slog.LevelWarn, "push provider unavailable",
		logger.ErrorCode("push.provider_unavailable"),
		logger.Channel(string(ChannelPush)),
		slog.String("fallback_mode", d.mode.String()),
		logger.Count("tokens", len(targets)),
		logger.Error(cause),
	)

	simulate := d.mode == PushFallbackSimulate
	outcomes := make([]DeliveryOutcome, len(targets))
	for i, t := range targets {
		outcomes[i] = DeliveryOutcome{UserID: t.userID, Channel: ChannelPush, Token: t.token, Success: simulate}
		if !simulate {
			outcomes[i].Err = cause
		}
	}
	return reduceOutcomes(outcomes)
}

func (d *PushDispatcher) send(ctx context.Context, t pushTarget, content PushContent) DeliveryOutcome {
	callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	err := d.sender.Send(callCtx, push.Message{
		Token: t.token,
		Title: content.Title,
		Body:  content.Body,
		Data: map[string]string{
			"notificationId": content.NotificationID,
			"type":           InAppType,
		},
	})
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "push send failed",
			logger.ErrorCode("push.send_failed"),
			logger.UserID(t.userID),
			logger.Channel(string(ChannelPush)),
			logger.Error(err),
		)
	}
	return DeliveryOutcome{UserID: t.userID, Channel: ChannelPush, Token: t.token, Success: err == nil, Err: err}
}

func reduceOutcomes(outcomes []DeliveryOutcome) ChunkResult {
	r := ChunkResult{Attempted: len(outcomes)}
	for _, o := range outcomes {
		if o.Success {
			r.Sent++
			continue
		}
		r.Failed++
		r.FailedTokens = append(r.FailedTokens, o.Token)
	}
	return r
}
