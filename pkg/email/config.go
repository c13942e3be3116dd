package email

import "time"

// Config holds email provider settings. Postmark tokens and SMTP host are
// optional: a missing provider is simply not wired, and development falls
// back to DevSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL"`

	SMTPHost     string        `env:"SMTP_HOST"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string        `env:"SMTP_USER"`
	SMTPPassword string        `env:"SMTP_PASS"`
	SMTPTimeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`

	DevOutputDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}
