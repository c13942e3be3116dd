package main

import "time"

type appConfig struct {
	Env            string `env:"APP_ENV" envDefault:"development"`
	Name           string `env:"APP_NAME" envDefault:"notifier"`
	JWTSigningKey  string `env:"JWT_SIGNING_KEY,required"`
	RBACPolicyFile string `env:"RBAC_POLICY_FILE"`

	// StoreBackend is "mongo" or "memory". Memory is for local runs only.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"mongo"`
	RedisEnabled bool   `env:"REDIS_ENABLED" envDefault:"false"`

	// ArchiveBackend is "none", "local" or "s3".
	ArchiveBackend  string `env:"ARCHIVE_BACKEND" envDefault:"none"`
	ArchiveLocalDir string `env:"ARCHIVE_LOCAL_DIR" envDefault:"./tmp/reports"`

	OpenSearchEnabled bool `env:"OPENSEARCH_ENABLED" envDefault:"false"`

	AdminRateLimitCapacity int           `env:"ADMIN_RATE_LIMIT_CAPACITY" envDefault:"10"`
	AdminRateLimitInterval time.Duration `env:"ADMIN_RATE_LIMIT_INTERVAL" envDefault:"1m"`
}
