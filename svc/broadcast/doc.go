// Package broadcast delivers admin announcements to an audience of users
// over push, email and in-app channels and records a delivery report.
//
// A run resolves the audience (a Segment or an explicit recipient list),
// writes in-app records for everyone in the background, pushes to the
// audience in fixed-size chunks with a pause between chunks, emails a
// bounded prefix of ALL and ADMINS audiences through a primary provider
// with a per-recipient fallback, then persists a DeliveryReport.
//
// Per-recipient failures never fail a run. They are logged with a stable
// error_code attribute and reflected in the report counts:
//
//	svc, err := broadcast.NewService(broadcast.Dependencies{
//		Directory:   store,
//		Preferences: store,
//		Inbox:       store,
//		Reports:     store,
//		Push:        pushClient,
//	}, broadcast.WithPushFallbackMode(broadcast.PushFallbackSimulate))
//
//	res, err := svc.Send(ctx, broadcast.Request{
//		NotificationID: "n-42",
//		Title:          "Draw tonight",
//		Message:        "The jackpot is 1M.",
//		TargetAudience: "USERS",
//	})
//
// MemoryStore backs development and tests; package mongostore provides the
// production stores.
package broadcast
