package broadcast

import "time"

// Role is a directory role filter. RoleAny matches every user.
type Role string

const (
	RoleAny    Role = ""
	RoleUser   Role = "USER"
	RoleVendor Role = "VENDOR"
	RoleAdmin  Role = "ADMIN"
)

type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
	ChannelInApp Channel = "in_app"
)

// InAppType tags every in-app record written by a broadcast.
const InAppType = "admin_announcement"

// Request is an admin broadcast as received over HTTP.
type Request struct {
	NotificationID string   `json:"notificationId"`
	Title          string   `json:"title"`
	Message        string   `json:"message"`
	TargetAudience string   `json:"targetAudience"`
	Recipients     []string `json:"recipients,omitempty"`
}

// Preferences are a user's delivery settings. Nil opt-in flags mean the
// user never chose, which counts as enabled.
type Preferences struct {
	UserID       string `json:"userId"`
	PushToken    string `json:"pushToken,omitempty"`
	PushEnabled  *bool  `json:"pushEnabled,omitempty"`
	Email        string `json:"email,omitempty"`
	EmailEnabled *bool  `json:"emailEnabled,omitempty"`
}

// PushTarget returns the token to push to, or "" when push should be skipped.
func (p Preferences) PushTarget() string {
	if p.PushEnabled != nil && !*p.PushEnabled {
		return ""
	}
	return p.PushToken
}

// EmailTarget returns the address to email, or "" when email should be skipped.
func (p Preferences) EmailTarget() string {
	if p.EmailEnabled != nil && !*p.EmailEnabled {
		return ""
	}
	return p.Email
}

// InAppNotification is the record appended to a user's profile.
type InAppNotification struct {
	ID        string    `json:"id" bson:"id"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Type      string    `json:"type" bson:"type"`
}

// DeliveryOutcome is the result of one delivery attempt to one user.
type DeliveryOutcome struct {
	UserID  string
	Channel Channel
	Token   string
	Success bool
	Err     error
}

// ChunkResult summarizes the push attempts of one chunk.
type ChunkResult struct {
	Attempted    int
	Sent         int
	Failed       int
	FailedTokens []string
}

// Tally accumulates chunk results across a run.
type Tally struct {
	Attempted    int
	Sent         int
	Failed       int
	FailedTokens []string
}

// Add returns the tally with r folded in. The receiver is not modified.
func (t Tally) Add(r ChunkResult) Tally {
	tokens := make([]string, 0, len(t.FailedTokens)+len(r.FailedTokens))
	tokens = append(tokens, t.FailedTokens...)
	tokens = append(tokens, r.FailedTokens...)
	return Tally{
		Attempted:    t.Attempted + r.Attempted,
		Sent:         t.Sent + r.Sent,
		Failed:       t.Failed + r.Failed,
		FailedTokens: tokens,
	}
}

// DeliveryReport is the persisted summary of a finished broadcast.
type DeliveryReport struct {
	NotificationID      string    `json:"notificationId" bson:"_id"`
	TotalRecipients     int       `json:"totalRecipients" bson:"totalRecipients"`
	SentCount           int       `json:"sentCount" bson:"sentCount"`
	FailedCount         int       `json:"failedCount" bson:"failedCount"`
	DeliveryRate        float64   `json:"deliveryRate" bson:"deliveryRate"`
	FailedTokens        []string  `json:"failedTokens" bson:"failedTokens"`
	LastDeliveryAttempt time.Time `json:"lastDeliveryAttempt" bson:"lastDeliveryAttempt"`
}

// DeliveryRate is sent/total as a percentage, 0 when total is 0.
func DeliveryRate(sent, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(sent) / float64(total) * 100
}

// InAppResult counts in-app writes of one run.
type InAppResult struct {
	Attempted int
	Written   int
	Failed    int
}

// Result is what Service.Send returns for a completed run.
type Result struct {
	Report   DeliveryReport
	InApp    InAppResult
	EmailErr error
}
