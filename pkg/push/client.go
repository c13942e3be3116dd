package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client posts messages to an HTTP push gateway.
type Client struct {
	gatewayURL string
	apiKey     string
	maxRetries int
	http       *http.Client
	backoff    Backoff
	breaker    *CircuitBreaker
}

// NewClient builds a gateway client. A malformed GatewayURL is an error; an
// empty one yields a client whose Available reports ErrNotConfigured.
func NewClient(cfg Config) (*Client, error) {
	if cfg.GatewayURL != "" {
		u, err := url.Parse(cfg.GatewayURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: invalid gateway url %q", ErrNotConfigured, cfg.GatewayURL)
		}
	}

	c := &Client{
		gatewayURL: cfg.GatewayURL,
		apiKey:     cfg.APIKey,
		maxRetries: max(cfg.MaxRetries, 0),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		backoff: ExponentialBackoff{Initial: cfg.RetryInterval, Max: cfg.MaxRetryInterval, Jitter: 0.1},
		breaker: NewCircuitBreaker(cfg.FailureThreshold, 1, cfg.RecoveryTimeout),
	}
	return c, nil
}

// Available reports ErrNotConfigured or ErrCircuitOpen when the gateway
// cannot be used.
func (c *Client) Available() error {
	if c.gatewayURL == "" {
		return ErrNotConfigured
	}
	if c.breaker.State() == CircuitOpen {
		return ErrCircuitOpen
	}
	return nil
}

// Send delivers msg, retrying temporary gateway failures with backoff.
// Rejected tokens fail immediately with ErrInvalidToken.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.gatewayURL == "" {
		return ErrNotConfigured
	}
	if msg.Token == "" {
		return ErrEmptyToken
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("push: marshal message: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(lastErr, ctx.Err())
			case <-time.After(c.backoff.NextInterval(attempt)):
			}
		}

		if !c.breaker.Allow() {
			return ErrCircuitOpen
		}

		status, err := c.post(ctx, payload)
		switch {
		case err == nil:
			c.breaker.RecordSuccess()
			return nil
		case isTokenRejection(status):
			c.breaker.RecordSuccess()
			return fmt.Errorf("%w: %w", ErrInvalidToken, err)
		case isPermanent(status):
			c.breaker.RecordFailure()
			return fmt.Errorf("%w: %w", ErrPermanent, err)
		}

		c.breaker.RecordFailure()
		lastErr = err
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, c.maxRetries+1, lastErr)
}

func (c *Client) post(ctx context.Context, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "lottomart-notifier/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return 0, fmt.Errorf("%w: %w", ErrTemporary, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, nil
	}

	msg := fmt.Sprintf("gateway returned status %d", resp.StatusCode)
	if len(body) > 0 {
		text := strings.ReplaceAll(string(body), "\n", " ")
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		msg += ": " + text
	}
	return resp.StatusCode, errors.New(msg)
}

// 400, 404 and 410 mean the gateway is healthy but the token is bad.
func isTokenRejection(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusGone:
		return true
	}
	return false
}

func isPermanent(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	}
	return true
}
