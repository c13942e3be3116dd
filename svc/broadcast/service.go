package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lottomart/notifier/pkg/async"
	"github.com/lottomart/notifier/pkg/email"
	"github.com/lottomart/notifier/pkg/logger"
	"github.com/lottomart/notifier/pkg/push"
	"github.com/lottomart/notifier/pkg/runlock"
)

// Dependencies are the collaborators a Service needs. Store fields are
// required; providers, Locker and Sinks are optional.
type Dependencies struct {
	Directory   Directory
	Preferences PreferenceStore
	Inbox       Inbox
	Reports     ReportStore

	Push          push.Sender
	EmailPrimary  email.BatchSender
	EmailFallback email.EmailSender

	Locker runlock.Locker
	Sinks  []ReportSink
}

// Service runs admin broadcasts end to end.
type Service struct {
	cfg      Config
	resolver *Resolver
	batcher  *Batcher
	push     *PushDispatcher
	email    *EmailDispatcher
	inApp    *InAppWriter
	agg      *Aggregator
	reports  ReportStore
	locker   runlock.Locker
	logger   *slog.Logger
}

type serviceOptions struct {
	cfg     Config
	mode    PushFallbackMode
	sleeper Sleeper
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*serviceOptions)

func WithConfig(cfg Config) Option {
	return func(o *serviceOptions) { o.cfg = cfg }
}

// WithPushFallbackMode sets how chunks are counted when the push provider
// is unavailable. Default is PushFallbackFail.
func WithPushFallbackMode(mode PushFallbackMode) Option {
	return func(o *serviceOptions) { o.mode = mode }
}

// WithSleeper replaces the timer used for inter-batch delays.
func WithSleeper(s Sleeper) Option {
	return func(o *serviceOptions) { o.sleeper = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *serviceOptions) { o.logger = l }
}

// WithClock sets the time source for report and in-app timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) { o.now = now }
}

func NewService(deps Dependencies, opts ...Option) (*Service, error) {
	if deps.Directory == nil || deps.Preferences == nil || deps.Inbox == nil || deps.Reports == nil {
		return nil, errors.New("broadcast: directory, preferences, inbox and reports are required")
	}

	o := serviceOptions{
		cfg:     DefaultConfig(),
		mode:    PushFallbackFail,
		sleeper: TimerSleeper,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.cfg.withDefaults()
	log := o.logger.With(logger.Component("broadcast"))

	locker := deps.Locker
	if locker == nil {
		locker = runlock.NewMemoryLocker()
	}

	inApp := NewInAppWriter(deps.Inbox, cfg, log)
	inApp.now = o.now
	agg := NewAggregator(deps.Reports, deps.Sinks, cfg, log)
	agg.now = o.now

	return &Service{
		cfg:      cfg,
		resolver: NewResolver(deps.Directory, cfg),
		batcher:  NewBatcher(cfg.BatchSize, cfg.BatchDelay, o.sleeper, log),
		push:     NewPushDispatcher(deps.Preferences, deps.Push, o.mode, cfg, log),
		email:    NewEmailDispatcher(deps.Preferences, deps.EmailPrimary, deps.EmailFallback, o.sleeper, cfg, log),
		inApp:    inApp,
		agg:      agg,
		reports:  deps.Reports,
		locker:   locker,
		logger:   log,
	}, nil
}

// Send runs one broadcast. Invalid requests fail with ErrInvalidRequest and
// a run already in progress for the same notification ID fails with
// ErrAlreadyRunning. Per-recipient failures only lower the delivery rate.
func (s *Service) Send(ctx context.Context, req Request) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	recipients, segment, err := s.resolver.Resolve(runCtx, req)
	if err != nil {
		return Result{}, err
	}

	log := s.logger.With(
		logger.NotificationID(req.NotificationID),
		logger.Audience(segment.String()),
	)

	release, err := s.locker.Acquire(ctx, "broadcast:"+req.NotificationID, s.cfg.RunTimeout+s.cfg.PersistTimeout)
	if err != nil {
		if errors.Is(err, runlock.ErrLocked) {
			return Result{}, ErrAlreadyRunning
		}
		return Result{}, fmt.Errorf("acquire run lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			log.LogAttrs(ctx, slog.LevelWarn, "run lock release failed", logger.Error(err))
		}
	}()

	start := time.Now()
	log.LogAttrs(ctx, slog.LevelInfo, "broadcast started", logger.Count("recipients", len(recipients)))

	inAppContent := InAppContent{NotificationID: req.NotificationID, Title: req.Title, Message: req.Message}
	inAppFuture := async.Async(runCtx, recipients, func(ctx context.Context, ids []string) (InAppResult, error) {
		return s.inApp.WriteAll(ctx, ids, inAppContent), nil
	})

	pushContent := PushContent{NotificationID: req.NotificationID, Title: req.Title, Body: req.Message}
	var tally Tally
	batchErrs := s.batcher.ForEach(runCtx, recipients, func(ctx context.Context, chunk []string, index, total int) error {
		result := s.push.Dispatch(ctx, chunk, pushContent)
		tally = tally.Add(result)
		log.LogAttrs(ctx, slog.LevelDebug, "push chunk dispatched",
			logger.Batch(index, total),
			logger.Count("attempted", result.Attempted),
			logger.Count("sent", result.Sent),
			logger.Count("failed", result.Failed),
		)
		return nil
	})
	if len(batchErrs) > 0 {
		log.LogAttrs(ctx, slog.LevelWarn, "push batches incomplete", logger.Errors(batchErrs...))
	}

	var emailErr error
	if segment.SendsEmail() {
		emailErr = s.email.Dispatch(runCtx, recipients, req.Title, req.Message)
		if emailErr != nil {
			log.LogAttrs(ctx, slog.LevelError, "email delivery failed",
				logger.ErrorCode("email.all_providers_failed"),
				logger.Channel(string(ChannelEmail)),
				logger.Error(emailErr),
			)
		}
	}

	inApp, err := inAppFuture.AwaitContext(runCtx)
	if err != nil {
		log.LogAttrs(ctx, slog.LevelError, "in-app writer aborted",
			logger.ErrorCode("inapp.write_failed"),
			logger.Channel(string(ChannelInApp)),
			logger.Error(err),
		)
		inApp = InAppResult{Attempted: len(recipients), Failed: len(recipients)}
	}

	report := s.agg.Finalize(ctx, req.NotificationID, len(recipients), tally)

	log.LogAttrs(ctx, slog.LevelInfo, "broadcast finished",
		logger.Count("sent", report.SentCount),
		logger.Count("failed", report.FailedCount),
		slog.Float64("delivery_rate", report.DeliveryRate),
		logger.Count("in_app_written", inApp.Written),
		logger.Duration(time.Since(start)),
	)

	return Result{Report: report, InApp: inApp, EmailErr: emailErr}, nil
}

// Report returns the persisted report for notificationID.
func (s *Service) Report(ctx context.Context, notificationID string) (DeliveryReport, error) {
	if notificationID == "" {
		return DeliveryReport{}, ErrReportNotFound
	}
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	report, err := s.reports.GetReport(callCtx, notificationID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return DeliveryReport{}, err
		}
		return DeliveryReport{}, errors.Join(ErrReportStore, err)
	}
	return report, nil
}
