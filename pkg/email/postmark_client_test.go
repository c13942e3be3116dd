package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostmark struct {
	single  []postmark.Email
	batches [][]postmark.Email
	err     error
	code    int64
}

func (f *fakePostmark) SendEmail(_ context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	f.single = append(f.single, e)
	return postmark.EmailResponse{ErrorCode: f.code, Message: "inactive recipient"}, f.err
}

func (f *fakePostmark) SendEmailBatch(_ context.Context, emails []postmark.Email) ([]postmark.EmailResponse, error) {
	f.batches = append(f.batches, emails)
	resps := make([]postmark.EmailResponse, len(emails))
	for i := range resps {
		resps[i].ErrorCode = f.code
	}
	return resps, f.err
}

func newTestPostmark(api postmarkAPI) *PostmarkClient {
	return &PostmarkClient{api: api, config: Config{SenderEmail: "noreply@lottomart.com"}}
}

func recipients(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "user" + strings.Repeat("x", i%3) + string(rune('a'+i%26)) + "@example.com"
	}
	return out
}

func TestPostmarkClient_SendBatch(t *testing.T) {
	t.Parallel()

	t.Run("single recipient uses To", func(t *testing.T) {
		t.Parallel()
		api := &fakePostmark{}
		err := newTestPostmark(api).SendBatch(context.Background(), BatchParams{
			Recipients: []string{"one@example.com"}, Subject: "s", BodyHTML: "b",
		})
		require.NoError(t, err)
		require.Len(t, api.single, 1)
		assert.Equal(t, "one@example.com", api.single[0].To)
		assert.Empty(t, api.single[0].Bcc)
		assert.Empty(t, api.batches)
	})

	t.Run("many recipients use Bcc in one call", func(t *testing.T) {
		t.Parallel()
		api := &fakePostmark{}
		rcpts := recipients(120)
		err := newTestPostmark(api).SendBatch(context.Background(), BatchParams{
			Recipients: rcpts, Subject: "s", BodyHTML: "b",
		})
		require.NoError(t, err)
		require.Len(t, api.batches, 1)
		msgs := api.batches[0]
		require.Len(t, msgs, 3)

		var all []string
		for _, m := range msgs {
			assert.Equal(t, "noreply@lottomart.com", m.To)
			parts := strings.Split(m.Bcc, ",")
			assert.LessOrEqual(t, len(parts), 50)
			all = append(all, parts...)
		}
		assert.Equal(t, rcpts, all)
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()
		api := &fakePostmark{err: errors.New("connection reset")}
		err := newTestPostmark(api).SendBatch(context.Background(), BatchParams{
			Recipients: recipients(2), Subject: "s", BodyHTML: "b",
		})
		assert.ErrorIs(t, err, ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("api error code", func(t *testing.T) {
		t.Parallel()
		api := &fakePostmark{code: 406}
		err := newTestPostmark(api).SendEmail(context.Background(), SendEmailParams{
			SendTo: "one@example.com", Subject: "s", BodyHTML: "b",
		})
		assert.ErrorIs(t, err, ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "406")
	})

	t.Run("invalid params never call the api", func(t *testing.T) {
		t.Parallel()
		api := &fakePostmark{}
		err := newTestPostmark(api).SendBatch(context.Background(), BatchParams{Subject: "s", BodyHTML: "b"})
		assert.ErrorIs(t, err, ErrInvalidParams)
		assert.Empty(t, api.batches)
	})
}
