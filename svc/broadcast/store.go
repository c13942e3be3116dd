package broadcast

import "context"

// Directory resolves roles to user identifiers.
type Directory interface {
	// ListUserIDs returns every user with role, or every user for RoleAny.
	ListUserIDs(ctx context.Context, role Role) ([]string, error)
}

// PreferenceStore looks up per-user delivery settings.
type PreferenceStore interface {
	// GetPreferences returns ErrUserNotFound for unknown users.
	GetPreferences(ctx context.Context, userID string) (Preferences, error)
}

// Inbox appends in-app notifications to user profiles.
type Inbox interface {
	Append(ctx context.Context, userID string, n InAppNotification) error
}

// ReportStore persists delivery reports keyed by notification ID.
// SaveReport overwrites any earlier report for the same ID.
type ReportStore interface {
	SaveReport(ctx context.Context, report DeliveryReport) error
	GetReport(ctx context.Context, notificationID string) (DeliveryReport, error)
}

// ReportSink receives each finalized report after it is persisted.
type ReportSink interface {
	Publish(ctx context.Context, report DeliveryReport) error
}
