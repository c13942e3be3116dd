package email_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/email"
)

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := email.NewDevSender(dir)
	ctx := context.Background()

	require.NoError(t, s.SendEmail(ctx, email.SendEmailParams{SendTo: "a@example.com", Subject: "Weekly Draw!", BodyHTML: "<p>x</p>"}))
	require.NoError(t, s.SendBatch(ctx, email.BatchParams{Recipients: []string{"a@example.com", "b@example.com"}, Subject: "Weekly Draw!", BodyHTML: "<p>y</p>"}))
	assert.ErrorIs(t, s.SendEmail(ctx, email.SendEmailParams{SendTo: "bad"}), email.ErrInvalidParams)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	var jsonFiles int
	for _, e := range entries {
		assert.Contains(t, e.Name(), "weekly_draw")
		if strings.HasSuffix(e.Name(), ".json") {
			jsonFiles++
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			require.NoError(t, err)
			assert.Contains(t, string(data), "a@example.com")
		}
	}
	assert.Equal(t, 2, jsonFiles)
}
