package email

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// EmailSender sends one message to one recipient.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// BatchSender sends one message to many recipients in a single provider call.
type BatchSender interface {
	SendBatch(ctx context.Context, params BatchParams) error
}

type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

type BatchParams struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	BodyHTML   string   `json:"body_html"`
	Tag        string   `json:"tag,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValidAddress reports whether addr looks like a deliverable address.
func IsValidAddress(addr string) bool {
	return emailRegex.MatchString(addr)
}

func (p SendEmailParams) Validate() error {
	if !IsValidAddress(p.SendTo) {
		return fmt.Errorf("%w: invalid recipient %q", ErrInvalidParams, p.SendTo)
	}
	return validateContent(p.Subject, p.BodyHTML)
}

func (p BatchParams) Validate() error {
	if len(p.Recipients) == 0 {
		return fmt.Errorf("%w: no recipients", ErrInvalidParams)
	}
	for _, r := range p.Recipients {
		if !IsValidAddress(r) {
			return fmt.Errorf("%w: invalid recipient %q", ErrInvalidParams, r)
		}
	}
	return validateContent(p.Subject, p.BodyHTML)
}

func validateContent(subject, body string) error {
	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}

// TextToHTML escapes plain text and turns line breaks into <br>.
func TextToHTML(text string) string {
	escaped := html.EscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}
