package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lottomart/notifier/svc/broadcast"
)

const (
	DefaultUsersCollection         = "users"
	DefaultNotificationsCollection = "notifications"
)

// Store implements the broadcast collaborator interfaces on MongoDB.
//
// User documents carry the role, delivery settings and an embedded
// "notifications" array that in-app records are pushed onto. Delivery
// reports are written onto the notification document whose _id is the
// notification ID.
type Store struct {
	users         *mongo.Collection
	notifications *mongo.Collection
}

type Option func(*storeOptions)

type storeOptions struct {
	users         string
	notifications string
}

func WithUsersCollection(name string) Option {
	return func(o *storeOptions) {
		if name != "" {
			o.users = name
		}
	}
}

func WithNotificationsCollection(name string) Option {
	return func(o *storeOptions) {
		if name != "" {
			o.notifications = name
		}
	}
}

func New(db *mongo.Database, opts ...Option) *Store {
	o := storeOptions{users: DefaultUsersCollection, notifications: DefaultNotificationsCollection}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{
		users:         db.Collection(o.users),
		notifications: db.Collection(o.notifications),
	}
}

var (
	_ broadcast.Directory       = (*Store)(nil)
	_ broadcast.PreferenceStore = (*Store)(nil)
	_ broadcast.Inbox           = (*Store)(nil)
	_ broadcast.ReportStore     = (*Store)(nil)
)

// userDocument is the subset of a user profile the pipeline reads.
type userDocument struct {
	ID           string `bson:"_id"`
	Role         string `bson:"role,omitempty"`
	PushToken    string `bson:"pushToken,omitempty"`
	PushEnabled  *bool  `bson:"pushNotificationsEnabled,omitempty"`
	Email        string `bson:"email,omitempty"`
	EmailEnabled *bool  `bson:"emailNotificationsEnabled,omitempty"`
}

func (d userDocument) preferences() broadcast.Preferences {
	return broadcast.Preferences{
		UserID:       d.ID,
		PushToken:    d.PushToken,
		PushEnabled:  d.PushEnabled,
		Email:        d.Email,
		EmailEnabled: d.EmailEnabled,
	}
}

func roleFilter(role broadcast.Role) bson.D {
	if role == broadcast.RoleAny {
		return bson.D{}
	}
	return bson.D{{Key: "role", Value: string(role)}}
}

func (s *Store) ListUserIDs(ctx context.Context, role broadcast.Role) ([]string, error) {
	cur, err := s.users.Find(ctx, roleFilter(role), options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return ids, nil
}

func (s *Store) GetPreferences(ctx context.Context, userID string) (broadcast.Preferences, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, bson.D{{Key: "_id", Value: userID}},
		options.FindOne().SetProjection(bson.D{
			{Key: "pushToken", Value: 1},
			{Key: "pushNotificationsEnabled", Value: 1},
			{Key: "email", Value: 1},
			{Key: "emailNotificationsEnabled", Value: 1},
		}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return broadcast.Preferences{}, broadcast.ErrUserNotFound
	}
	if err != nil {
		return broadcast.Preferences{}, fmt.Errorf("find preferences: %w", err)
	}
	return doc.preferences(), nil
}

func (s *Store) Append(ctx context.Context, userID string, n broadcast.InAppNotification) error {
	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "notifications", Value: n}}}},
	)
	if err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	if res.MatchedCount == 0 {
		return broadcast.ErrUserNotFound
	}
	return nil
}

// SaveReport sets the report fields on the notification document, creating
// it when absent. Earlier report values are overwritten.
func (s *Store) SaveReport(ctx context.Context, report broadcast.DeliveryReport) error {
	_, err := s.notifications.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: report.NotificationID}},
		bson.D{{Key: "$set", Value: reportFields(report)}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func reportFields(r broadcast.DeliveryReport) bson.D {
	tokens := r.FailedTokens
	if tokens == nil {
		tokens = []string{}
	}
	return bson.D{
		{Key: "totalRecipients", Value: r.TotalRecipients},
		{Key: "sentCount", Value: r.SentCount},
		{Key: "failedCount", Value: r.FailedCount},
		{Key: "deliveryRate", Value: r.DeliveryRate},
		{Key: "failedTokens", Value: tokens},
		{Key: "lastDeliveryAttempt", Value: r.LastDeliveryAttempt},
	}
}

// GetReport returns ErrReportNotFound when the notification document is
// missing or was never finalized.
func (s *Store) GetReport(ctx context.Context, notificationID string) (broadcast.DeliveryReport, error) {
	var report broadcast.DeliveryReport
	err := s.notifications.FindOne(ctx, bson.D{
		{Key: "_id", Value: notificationID},
		{Key: "lastDeliveryAttempt", Value: bson.D{{Key: "$exists", Value: true}}},
	}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return broadcast.DeliveryReport{}, broadcast.ErrReportNotFound
	}
	if err != nil {
		return broadcast.DeliveryReport{}, fmt.Errorf("find report: %w", err)
	}
	return report, nil
}
