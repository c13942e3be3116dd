package push

import "context"

// Message is one push notification addressed to a single device token.
type Message struct {
	Token string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Sender delivers push messages. Available reports whether the provider can
// be used at all; per-token failures come back from Send.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Available() error
}
