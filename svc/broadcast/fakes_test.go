package broadcast_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lottomart/notifier/pkg/email"
	"github.com/lottomart/notifier/pkg/push"
	"github.com/lottomart/notifier/svc/broadcast"
)

func boolPtr(b bool) *bool { return &b }

func user(id string, role broadcast.Role, token, addr string) broadcast.MemoryUser {
	return broadcast.MemoryUser{
		ID:   id,
		Role: role,
		Preferences: broadcast.Preferences{
			PushToken: token,
			Email:     addr,
		},
	}
}

// fakePush fails sends to tokens listed in fail.
type fakePush struct {
	mu          sync.Mutex
	sent        []string
	fail        map[string]bool
	unavailable error
	delay       time.Duration

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
}

func (f *fakePush) Available() error { return f.unavailable }

func (f *fakePush) Send(ctx context.Context, msg push.Message) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg.Token)
	if f.fail[msg.Token] {
		return push.ErrInvalidToken
	}
	return nil
}

func (f *fakePush) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.sent)
	slices.Sort(out)
	return out
}

type fakeBatchSender struct {
	mu    sync.Mutex
	err   error
	calls [][]string
}

func (f *fakeBatchSender) SendBatch(_ context.Context, p email.BatchParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, slices.Clone(p.Recipients))
	return f.err
}

func (f *fakeBatchSender) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

type fakeEmailSender struct {
	mu   sync.Mutex
	fail func(addr string) error
	to   []string
}

func (f *fakeEmailSender) SendEmail(_ context.Context, p email.SendEmailParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.to = append(f.to, p.SendTo)
	if f.fail != nil {
		return f.fail(p.SendTo)
	}
	return nil
}

func (f *fakeEmailSender) To() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.to)
	slices.Sort(out)
	return out
}

// recordingSleeper records requested delays without waiting.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.delays)
}

// countingDirectory counts calls on top of a MemoryStore.
type countingDirectory struct {
	*broadcast.MemoryStore
	calls atomic.Int64
	err   error
}

func (d *countingDirectory) ListUserIDs(ctx context.Context, role broadcast.Role) ([]string, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	return d.MemoryStore.ListUserIDs(ctx, role)
}

// flakyPreferences fails lookups for the listed users.
type flakyPreferences struct {
	broadcast.PreferenceStore
	fail map[string]bool
}

func (p flakyPreferences) GetPreferences(ctx context.Context, userID string) (broadcast.Preferences, error) {
	if p.fail[userID] {
		return broadcast.Preferences{}, errors.New("preferences timeout")
	}
	return p.PreferenceStore.GetPreferences(ctx, userID)
}

// flakyInbox fails appends for the listed users.
type flakyInbox struct {
	broadcast.Inbox
	fail  map[string]bool
	calls atomic.Int64
}

func (i *flakyInbox) Append(ctx context.Context, userID string, n broadcast.InAppNotification) error {
	i.calls.Add(1)
	if i.fail[userID] {
		return errors.New("profile write rejected")
	}
	return i.Inbox.Append(ctx, userID, n)
}

type failingReports struct {
	broadcast.ReportStore
	err error
}

func (r failingReports) SaveReport(context.Context, broadcast.DeliveryReport) error { return r.err }

type sinkFunc func(ctx context.Context, r broadcast.DeliveryReport) error

func (f sinkFunc) Publish(ctx context.Context, r broadcast.DeliveryReport) error { return f(ctx, r) }

// noDelay keeps tests fast while preserving batch semantics.
func noDelay() broadcast.Config {
	cfg := broadcast.DefaultConfig()
	cfg.BatchDelay = 0
	cfg.EmailBatchDelay = 0
	return cfg
}
