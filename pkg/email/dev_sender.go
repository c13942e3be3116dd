package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// DevSender writes emails to disk instead of sending them. It implements
// EmailSender and BatchSender.
type DevSender struct {
	dir string
	seq atomic.Uint64
	now func() time.Time
}

func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

type emailMetadata struct {
	Timestamp  string   `json:"timestamp"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Tag        string   `json:"tag,omitempty"`
}

func (d *DevSender) SendEmail(_ context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return d.write([]string{params.SendTo}, params.Subject, params.BodyHTML, params.Tag)
}

func (d *DevSender) SendBatch(_ context.Context, params BatchParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return d.write(params.Recipients, params.Subject, params.BodyHTML, params.Tag)
}

// write stores body as <ts>_<seq>_<name>.html next to a .json metadata file.
func (d *DevSender) write(recipients []string, subject, body, tag string) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrFailedToSendEmail, err)
	}

	now := d.now()
	name := tag
	if name == "" {
		name = subject
	}
	base := fmt.Sprintf("%s_%04d_%s", now.Format("2006_01_02_150405"), d.seq.Add(1), sanitizeFilename(name))

	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(body), 0o644); err != nil {
		return fmt.Errorf("%w: write html: %w", ErrFailedToSendEmail, err)
	}

	meta, err := json.MarshalIndent(emailMetadata{
		Timestamp:  now.Format(time.RFC3339),
		Recipients: recipients,
		Subject:    subject,
		Tag:        tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal metadata: %w", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), meta, 0o644); err != nil {
		return fmt.Errorf("%w: write metadata: %w", ErrFailedToSendEmail, err)
	}
	return nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = sanitizeRegex.ReplaceAllString(strings.ReplaceAll(s, " ", "_"), "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
