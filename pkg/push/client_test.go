package push_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/push"
)

func newGateway(t *testing.T, handler func(w http.ResponseWriter, msg push.Message)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var msg push.Message
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		handler(w, msg)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func gatewayConfig(url string) push.Config {
	return push.Config{
		GatewayURL:       url,
		APIKey:           "secret",
		MaxRetries:       2,
		RetryInterval:    time.Millisecond,
		MaxRetryInterval: time.Millisecond,
		FailureThreshold: 100,
	}
}

func newClient(t *testing.T, cfg push.Config) *push.Client {
	t.Helper()
	c, err := push.NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestClient_Send(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newGateway(t, func(w http.ResponseWriter, msg push.Message) {
		calls.Add(1)
		switch msg.Token {
		case "good":
			assert.Equal(t, "Draw tonight", msg.Title)
			w.WriteHeader(http.StatusOK)
		case "gone":
			w.WriteHeader(http.StatusGone)
		case "unauthorized":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	tests := []struct {
		name      string
		token     string
		wantErr   error
		wantCalls int32
	}{
		{"success", "good", nil, 1},
		{"token rejected", "gone", push.ErrInvalidToken, 1},
		{"permanent", "unauthorized", push.ErrPermanent, 1},
		{"retries exhausted", "flaky", push.ErrDeliveryFailed, 3},
		{"empty token", "", push.ErrEmptyToken, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls.Store(0)
			c := newClient(t, gatewayConfig(srv.URL))
			err := c.Send(context.Background(), push.Message{Token: tt.token, Title: "Draw tonight", Body: "8pm"})
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestClient_RetryThenSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newGateway(t, func(w http.ResponseWriter, _ push.Message) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, newClient(t, gatewayConfig(srv.URL)).Send(context.Background(), push.Message{Token: "t"}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Available(t *testing.T) {
	t.Parallel()

	unconfigured, err := push.NewClient(push.Config{})
	require.NoError(t, err)
	assert.ErrorIs(t, unconfigured.Available(), push.ErrNotConfigured)
	assert.ErrorIs(t, unconfigured.Send(context.Background(), push.Message{Token: "t"}), push.ErrNotConfigured)

	_, err = push.NewClient(push.Config{GatewayURL: "ftp://gateway"})
	assert.ErrorIs(t, err, push.ErrNotConfigured)

	srv := newGateway(t, func(w http.ResponseWriter, _ push.Message) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	cfg := gatewayConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.FailureThreshold = 2
	cfg.RecoveryTimeout = time.Hour
	c := newClient(t, cfg)

	require.NoError(t, c.Available())
	assert.Error(t, c.Send(context.Background(), push.Message{Token: "t"}))
	assert.Error(t, c.Send(context.Background(), push.Message{Token: "t"}))

	assert.ErrorIs(t, c.Available(), push.ErrCircuitOpen)
	assert.ErrorIs(t, c.Send(context.Background(), push.Message{Token: "t"}), push.ErrCircuitOpen)
}

func TestClient_TokenRejectionsKeepCircuitClosed(t *testing.T) {
	t.Parallel()

	srv := newGateway(t, func(w http.ResponseWriter, _ push.Message) {
		w.WriteHeader(http.StatusNotFound)
	})
	cfg := gatewayConfig(srv.URL)
	cfg.FailureThreshold = 1
	cfg.RecoveryTimeout = time.Hour
	c := newClient(t, cfg)

	for range 3 {
		assert.ErrorIs(t, c.Send(context.Background(), push.Message{Token: "t"}), push.ErrInvalidToken)
	}
	assert.NoError(t, c.Available())
}

func TestClient_ContextCancelStopsRetries(t *testing.T) {
	t.Parallel()

	srv := newGateway(t, func(w http.ResponseWriter, _ push.Message) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	cfg := gatewayConfig(srv.URL)
	cfg.MaxRetries = 5
	cfg.RetryInterval = time.Hour
	cfg.MaxRetryInterval = time.Hour
	c := newClient(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Send(ctx, push.Message{Token: "t"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
