package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
)

// Postmark caps To+Cc+Bcc at 50 addresses per message.
const postmarkMaxRecipients = 50

type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
	SendEmailBatch(ctx context.Context, emails []postmark.Email) ([]postmark.EmailResponse, error)
}

// PostmarkClient is the primary provider. It implements EmailSender and
// BatchSender.
type PostmarkClient struct {
	api    postmarkAPI
	config Config
}

func NewPostmarkClient(cfg Config) (*PostmarkClient, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if !IsValidAddress(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if cfg.SupportEmail != "" && !IsValidAddress(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}

	return &PostmarkClient{
		api:    postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

func (c *PostmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	msg := c.message(params.Subject, params.BodyHTML, params.Tag)
	msg.To = params.SendTo

	resp, err := c.api.SendEmail(ctx, msg)
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return responseError(resp)
}

// SendBatch addresses a single recipient directly and hides multiple
// recipients in Bcc, split into messages of at most 50 addresses, all
// submitted in one batch API call.
func (c *PostmarkClient) SendBatch(ctx context.Context, params BatchParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if len(params.Recipients) == 1 {
		return c.SendEmail(ctx, SendEmailParams{
			SendTo:   params.Recipients[0],
			Subject:  params.Subject,
			BodyHTML: params.BodyHTML,
			Tag:      params.Tag,
		})
	}

	var msgs []postmark.Email
	for start := 0; start < len(params.Recipients); start += postmarkMaxRecipients {
		end := min(start+postmarkMaxRecipients, len(params.Recipients))
		msg := c.message(params.Subject, params.BodyHTML, params.Tag)
		msg.To = c.config.SenderEmail
		msg.Bcc = strings.Join(params.Recipients[start:end], ",")
		msgs = append(msgs, msg)
	}

	resps, err := c.api.SendEmailBatch(ctx, msgs)
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	var errs []error
	for _, resp := range resps {
		if err := responseError(resp); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *PostmarkClient) message(subject, body, tag string) postmark.Email {
	return postmark.Email{
		From:       c.config.SenderEmail,
		ReplyTo:    c.config.SupportEmail,
		Subject:    subject,
		Tag:        tag,
		HTMLBody:   body,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	}
}

func responseError(resp postmark.EmailResponse) error {
	if resp.ErrorCode == 0 {
		return nil
	}
	return errors.Join(
		ErrFailedToSendEmail,
		fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
	)
}
