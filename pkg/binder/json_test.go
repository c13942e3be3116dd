package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/binder"
)

type payload struct {
	Title      string   `json:"title"`
	Recipients []string `json:"recipients"`
	Flag       *bool    `json:"flag,omitempty"`
}

func newRequest(contentType, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		wantErr     error
	}{
		{name: "valid", contentType: "application/json", body: `{"title":"Hi","recipients":["a","b"]}`},
		{name: "charset param", contentType: "application/json; charset=utf-8", body: `{"title":"Hi"}`},
		{name: "missing content type", body: `{}`, wantErr: binder.ErrMissingContentType},
		{name: "wrong media type", contentType: "text/plain", body: `{}`, wantErr: binder.ErrUnsupportedMediaType},
		{name: "empty body", contentType: "application/json", body: ``, wantErr: binder.ErrFailedToParseJSON},
		{name: "malformed", contentType: "application/json", body: `{"title":`, wantErr: binder.ErrFailedToParseJSON},
		{name: "unknown field", contentType: "application/json", body: `{"title":"Hi","extra":1}`, wantErr: binder.ErrFailedToParseJSON},
		{name: "wrong type", contentType: "application/json", body: `{"title":5}`, wantErr: binder.ErrFailedToParseJSON},
		{name: "trailing data", contentType: "application/json", body: `{"title":"a"}{"title":"b"}`, wantErr: binder.ErrFailedToParseJSON},
	}

	bind := binder.JSON()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var p payload
			err := bind(newRequest(tt.contentType, tt.body), &p)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Hi", p.Title)
		})
	}
}

func TestJSON_OptionalPointer(t *testing.T) {
	t.Parallel()

	bind := binder.JSON()

	var absent payload
	require.NoError(t, bind(newRequest("application/json", `{"title":"x"}`), &absent))
	assert.Nil(t, absent.Flag)

	var present payload
	require.NoError(t, bind(newRequest("application/json", `{"title":"x","flag":false}`), &present))
	require.NotNil(t, present.Flag)
	assert.False(t, *present.Flag)
}

func TestJSON_MaxSize(t *testing.T) {
	t.Parallel()

	bind := binder.JSON(binder.WithMaxSize(16))
	var p payload
	err := bind(newRequest("application/json", `{"title":"`+strings.Repeat("a", 32)+`"}`), &p)
	require.ErrorIs(t, err, binder.ErrBodyTooLarge)
}
