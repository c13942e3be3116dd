package broadcast

import "time"

// Config tunes the pipeline. Non-positive sizes and timeouts fall back to
// DefaultConfig values; delays may be zero.
type Config struct {
	BatchSize              int           `env:"BROADCAST_BATCH_SIZE" envDefault:"100"`
	BatchDelay             time.Duration `env:"BROADCAST_BATCH_DELAY" envDefault:"1s"`
	Workers                int           `env:"BROADCAST_WORKERS" envDefault:"10"`
	EmailMaxRecipients     int           `env:"BROADCAST_EMAIL_MAX_RECIPIENTS" envDefault:"50"`
	EmailPrimaryBatchSize  int           `env:"BROADCAST_EMAIL_PRIMARY_BATCH_SIZE" envDefault:"1000"`
	EmailFallbackBatchSize int           `env:"BROADCAST_EMAIL_FALLBACK_BATCH_SIZE" envDefault:"50"`
	EmailBatchDelay        time.Duration `env:"BROADCAST_EMAIL_BATCH_DELAY" envDefault:"1s"`
	CallTimeout            time.Duration `env:"BROADCAST_CALL_TIMEOUT" envDefault:"10s"`
	RunTimeout             time.Duration `env:"BROADCAST_RUN_TIMEOUT" envDefault:"10m"`
	PersistTimeout         time.Duration `env:"BROADCAST_PERSIST_TIMEOUT" envDefault:"15s"`
}

func DefaultConfig() Config {
	return Config{
		BatchSize:              100,
		BatchDelay:             time.Second,
		Workers:                10,
		EmailMaxRecipients:     50,
		EmailPrimaryBatchSize:  1000,
		EmailFallbackBatchSize: 50,
		EmailBatchDelay:        time.Second,
		CallTimeout:            10 * time.Second,
		RunTimeout:             10 * time.Minute,
		PersistTimeout:         15 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = 0
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.EmailMaxRecipients <= 0 {
		c.EmailMaxRecipients = d.EmailMaxRecipients
	}
	if c.EmailPrimaryBatchSize <= 0 {
		c.EmailPrimaryBatchSize = d.EmailPrimaryBatchSize
	}
	if c.EmailFallbackBatchSize <= 0 {
		c.EmailFallbackBatchSize = d.EmailFallbackBatchSize
	}
	if c.EmailBatchDelay < 0 {
		c.EmailBatchDelay = 0
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = d.CallTimeout
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = d.RunTimeout
	}
	if c.PersistTimeout <= 0 {
		c.PersistTimeout = d.PersistTimeout
	}
	return c
}
