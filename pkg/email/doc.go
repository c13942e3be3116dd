// Package email sends broadcast emails.
//
// Two capabilities are defined: BatchSender (one provider call for many
// recipients) and EmailSender (one recipient per call). PostmarkClient
// implements both and serves as the primary provider; SMTPSender implements
// EmailSender over gopkg.in/mail.v2 and serves as the fallback. DevSender
// writes messages to a local directory for development.
//
//	primary, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//		return err
//	}
//	err = primary.SendBatch(ctx, email.BatchParams{
//		Recipients: []string{"a@example.com", "b@example.com"},
//		Subject:    "Draw results",
//		BodyHTML:   email.TextToHTML("Winners are out.\nCheck the app."),
//	})
//
// All senders validate parameters and return ErrInvalidParams for bad input
// and ErrFailedToSendEmail for provider failures.
package email
