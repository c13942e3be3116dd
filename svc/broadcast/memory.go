package broadcast

import (
	"context"
	"slices"
	"sync"
)

// MemoryUser is a user record held by MemoryStore.
type MemoryUser struct {
	ID          string
	Role        Role
	Preferences Preferences
}

// MemoryStore implements Directory, PreferenceStore, Inbox and ReportStore
// in memory. Suitable for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	users   map[string]MemoryUser
	inbox   map[string][]InAppNotification
	reports map[string]DeliveryReport
}

func NewMemoryStore(users ...MemoryUser) *MemoryStore {
	s := &MemoryStore{
		users:   make(map[string]MemoryUser),
		inbox:   make(map[string][]InAppNotification),
		reports: make(map[string]DeliveryReport),
	}
	for _, u := range users {
		s.PutUser(u)
	}
	return s
}

// PutUser adds or replaces a user. Directory listings keep insertion order.
func (s *MemoryStore) PutUser(u MemoryUser) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; !exists {
		s.order = append(s.order, u.ID)
	}
	u.Preferences.UserID = u.ID
	s.users[u.ID] = u
}

func (s *MemoryStore) ListUserIDs(ctx context.Context, role Role) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if role == RoleAny || s.users[id].Role == role {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *MemoryStore) GetPreferences(ctx context.Context, userID string) (Preferences, error) {
	if err := ctx.Err(); err != nil {
		return Preferences{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return Preferences{}, ErrUserNotFound
	}
	return u.Preferences, nil
}

func (s *MemoryStore) Append(ctx context.Context, userID string, n InAppNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrUserNotFound
	}
	s.inbox[userID] = append(s.inbox[userID], n)
	return nil
}

// Inbox returns a copy of the records appended for userID.
func (s *MemoryStore) Inbox(userID string) []InAppNotification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.inbox[userID])
}

func (s *MemoryStore) SaveReport(ctx context.Context, report DeliveryReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	report.FailedTokens = slices.Clone(report.FailedTokens)
	s.reports[report.NotificationID] = report
	return nil
}

func (s *MemoryStore) GetReport(ctx context.Context, notificationID string) (DeliveryReport, error) {
	if err := ctx.Err(); err != nil {
		return DeliveryReport{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[notificationID]
	if !ok {
		return DeliveryReport{}, ErrReportNotFound
	}
	report.FailedTokens = slices.Clone(report.FailedTokens)
	return report, nil
}
