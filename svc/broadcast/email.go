package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lottomart/notifier/pkg/email"
	"github.com/lottomart/notifier/pkg/logger"
)

// EmailDispatcher mails a bounded prefix of the audience through a primary
// batch provider, switching to a per-recipient fallback provider when the
// primary fails.
type EmailDispatcher struct {
	prefs    PreferenceStore
	primary  email.BatchSender
	fallback email.EmailSender
	sleeper  Sleeper
	cfg      Config
	logger   *slog.Logger
}

func NewEmailDispatcher(prefs PreferenceStore, primary email.BatchSender, fallback email.EmailSender, sleeper Sleeper, cfg Config, log *slog.Logger) *EmailDispatcher {
	if sleeper == nil {
		sleeper = TimerSleeper
	}
	if log == nil {
		log = logger.Discard()
	}
	return &EmailDispatcher{
		prefs:    prefs,
		primary:  primary,
		fallback: fallback,
		sleeper:  sleeper,
		cfg:      cfg.withDefaults(),
		logger:   log,
	}
}

// Dispatch emails title and message to the first EmailMaxRecipients users
// that have an address and email enabled. It returns an error wrapping
// email.ErrAllProvidersFailed only when both providers failed.
func (d *EmailDispatcher) Dispatch(ctx context.Context, recipients []string, title, message string) error {
	if len(recipients) > d.cfg.EmailMaxRecipients {
		recipients = recipients[:d.cfg.EmailMaxRecipients]
	}

	addrs := d.resolveAddresses(ctx, recipients)
	if len(addrs) == 0 {
		return nil
	}

	body := email.TextToHTML(message)

	remaining, primaryErr := d.sendPrimary(ctx, addrs, title, body)
	if primaryErr == nil {
		return nil
	}
	d.logger.LogAttrs(ctx, slog.LevelWarn, "primary email provider failed, using fallback",
		logger.ErrorCode("email.primary_failed"),
		logger.Channel(string(ChannelEmail)),
		logger.Count("recipients", len(remaining)),
		logger.Error(primaryErr),
	)

	fallbackErr := d.sendFallback(ctx, remaining, title, body)
	if fallbackErr == nil {
		return nil
	}
	return errors.Join(
		email.ErrAllProvidersFailed,
		fmt.Errorf("primary provider: %w", primaryErr),
		fmt.Errorf("fallback provider: %w", fallbackErr),
	)
}

func (d *EmailDispatcher) resolveAddresses(ctx context.Context, recipients []string) []string {
	addrs := make([]string, len(recipients))
	g := new(errgroup.Group)
	g.SetLimit(d.cfg.Workers)
	for i, userID := range recipients {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
			defer cancel()

			prefs, err := d.prefs.GetPreferences(callCtx, userID)
			if err != nil {
				d.logger.LogAttrs(ctx, slog.LevelWarn, "email address lookup failed",
					logger.ErrorCode("email.lookup_failed"),
					logger.UserID(userID),
					logger.Channel(string(ChannelEmail)),
					logger.Error(err),
				)
				return nil
			}
			if addr := prefs.EmailTarget(); email.IsValidAddress(addr) {
				addrs[i] = addr
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// sendPrimary sends addrs in batches. On failure it returns the addresses
// not yet delivered, starting with the failed batch.
func (d *EmailDispatcher) sendPrimary(ctx context.Context, addrs []string, subject, body string) ([]string, error) {
	if d.primary == nil {
		return addrs, fmt.Errorf("%w: primary provider not configured", email.ErrInvalidConfig)
	}

	batches := Chunks(addrs, d.cfg.EmailPrimaryBatchSize)
	for i, batch := range batches {
		if i > 0 {
			if err := d.sleeper.Sleep(ctx, d.cfg.EmailBatchDelay); err != nil {
				return addrs[i*d.cfg.EmailPrimaryBatchSize:], err
			}
		}

		if err := d.callPrimary(ctx, batch, subject, body); err != nil {
			return addrs[i*d.cfg.EmailPrimaryBatchSize:], err
		}
		d.logger.LogAttrs(ctx, slog.LevelInfo, "email batch sent",
			logger.Channel(string(ChannelEmail)),
			logger.Provider("primary"),
			logger.Batch(i, len(batches)),
			logger.Count("recipients", len(batch)),
		)
	}
	return nil, nil
}

func (d *EmailDispatcher) callPrimary(ctx context.Context, batch []string, subject, body string) error {
	callCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()
	return d.primary.SendBatch(callCtx, email.BatchParams{
		Recipients: batch,
		Subject:    subject,
		BodyHTML:   body,
		Tag:        InAppType,
	})
}

// sendFallback mails each address individually. It fails only when no
// address at all was delivered.
func (d *EmailDispatcher) sendFallback(ctx context.Context, addrs []string, subject, body string) error {
	if d.fallback == nil {
		return fmt.Errorf("%w: fallback provider not configured", email.ErrInvalidConfig)
	}

	var delivered atomic.Int64
	errs := make([]error, len(addrs))

	batches := Chunks(addrs, d.cfg.EmailFallbackBatchSize)
	for i, batch := range batches {
		if i > 0 {
			if err := d.sleeper.Sleep(ctx, d.cfg.EmailBatchDelay); err != nil {
				errs = append(errs, err)
				break
			}
		}

		offset := i * d.cfg.EmailFallbackBatchSize
		g := new(errgroup.Group)
		g.SetLimit(d.cfg.Workers)
		for j, addr := range batch {
			g.Go(func() error {
				start := time.Now()
				err := d.callFallback(ctx, addr, subject, body)
				if err != nil {
					errs[offset+j] = fmt.Errorf("%s: %w", addr, err)
					d.logger.LogAttrs(ctx, slog.LevelWarn, "fallback email failed",
						logger.ErrorCode("email.fallback_recipient_failed"),
						logger.Channel(string(ChannelEmail)),
						logger.Provider("fallback"),
						logger.Duration(time.Since(start)),
						logger.Error(err),
					)
					return nil
				}
				delivered.Add(1)
				d.logger.LogAttrs(ctx, slog.LevelDebug, "fallback email sent",
					logger.Channel(string(ChannelEmail)),
					logger.Provider("fallback"),
					logger.Duration(time.Since(start)),
				)
				return nil
			})
		}
		_ = g.Wait()
	}

	if delivered.Load() > 0 {
		return nil
	}
	return errors.Join(errs...)
}

func (d *EmailDispatcher) callFallback(ctx context.Context, addr, subject, body string) error {
	callCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()
	return d.fallback.SendEmail(callCtx, email.SendEmailParams{
		SendTo:   addr,
		Subject:  subject,
		BodyHTML: body,
		Tag:      InAppType,
	})
}
