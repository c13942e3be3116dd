package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/mail.v2"
)

type smtpDialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPSender is the fallback provider: one SMTP session per recipient.
type SMTPSender struct {
	dialer smtpDialer
	from   string
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("%w: SMTPHost is required", ErrInvalidConfig)
	}
	if !IsValidAddress(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if cfg.SMTPTimeout > 0 {
		d.Timeout = cfg.SMTPTimeout
	} else {
		d.Timeout = 10 * time.Second
	}
	return &SMTPSender{dialer: d, from: cfg.SenderEmail}, nil
}

// SendEmail returns when the message is sent or ctx is done, whichever is
// first. The SMTP session itself is bounded by the dialer timeout.
func (s *SMTPSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", params.SendTo)
	m.SetHeader("Subject", params.Subject)
	m.SetBody("text/html", params.BodyHTML)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return errors.Join(ErrFailedToSendEmail, err)
		}
		return nil
	case <-ctx.Done():
		return errors.Join(ErrFailedToSendEmail, ctx.Err())
	}
}
