package push

import "time"

// Config configures the push gateway client. An empty GatewayURL leaves the
// client unavailable rather than failing startup.
type Config struct {
	GatewayURL       string        `env:"PUSH_GATEWAY_URL"`
	APIKey           string        `env:"PUSH_API_KEY"`
	MaxRetries       int           `env:"PUSH_MAX_RETRIES" envDefault:"2"`
	RetryInterval    time.Duration `env:"PUSH_RETRY_INTERVAL" envDefault:"200ms"`
	MaxRetryInterval time.Duration `env:"PUSH_MAX_RETRY_INTERVAL" envDefault:"2s"`
	FailureThreshold int           `env:"PUSH_CIRCUIT_FAILURE_THRESHOLD" envDefault:"5"`
	RecoveryTimeout  time.Duration `env:"PUSH_CIRCUIT_RECOVERY_TIMEOUT" envDefault:"30s"`
}
