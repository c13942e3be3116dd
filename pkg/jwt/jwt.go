package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	HeaderType      = "JWT"
	HeaderAlgorithm = "HS256"
)

type Header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

type StandardClaims struct {
	ID        string `json:"jti,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// ValidAt checks the time-based claims against now.
func (c StandardClaims) ValidAt(now time.Time) error {
	ts := now.Unix()
	if c.ExpiresAt > 0 && ts > c.ExpiresAt {
		return ErrExpiredToken
	}
	if c.NotBefore > 0 && ts < c.NotBefore {
		return ErrInvalidToken
	}
	return nil
}

// Claims identifies the caller of the admin API.
type Claims struct {
	StandardClaims
	Role string `json:"role,omitempty"`
}

// ValidAt also requires a subject; an anonymous token is never accepted.
func (c Claims) ValidAt(now time.Time) error {
	if err := c.StandardClaims.ValidAt(now); err != nil {
		return err
	}
	if c.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidClaims)
	}
	return nil
}

// Service signs and verifies HS256 tokens.
type Service struct {
	signingKey []byte
	now        func() time.Time
}

func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &Service{signingKey: signingKey, now: time.Now}, nil
}

func NewFromString(signingKey string) (*Service, error) {
	return New([]byte(signingKey))
}

func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	headerJSON, err := json.Marshal(Header{Type: HeaderType, Algorithm: HeaderAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return payload + "." + s.sign(payload), nil
}

// Parse verifies the signature and decodes claims into dst. When dst has a
// ValidAt(time.Time) error method it is checked against the service clock.
func (s *Service) Parse(token string, dst any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(s.sign(payload))) != 1 {
		return ErrInvalidSignature
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return fmt.Errorf("%w: decode header: %w", ErrInvalidToken, err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return fmt.Errorf("%w: unmarshal header: %w", ErrInvalidToken, err)
	}
	if header.Algorithm != HeaderAlgorithm {
		return ErrUnexpectedSigningMethod
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return fmt.Errorf("%w: decode claims: %w", ErrInvalidClaims, err)
	}
	if err := json.Unmarshal(claimsJSON, dst); err != nil {
		return fmt.Errorf("%w: unmarshal claims: %w", ErrInvalidClaims, err)
	}

	if v, ok := dst.(interface{ ValidAt(time.Time) error }); ok {
		return v.ValidAt(s.now())
	}
	return nil
}

// Verify parses token into Claims.
func (s *Service) Verify(token string) (Claims, error) {
	var c Claims
	if err := s.Parse(token, &c); err != nil {
		return Claims{}, err
	}
	return c, nil
}

func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.signingKey)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
