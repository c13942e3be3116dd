// Package config loads typed configuration from environment variables using
// github.com/caarlos0/env/v11, after reading an optional .env file with
// github.com/joho/godotenv.
//
// Every package that needs settings declares its own struct with `env` and
// `envDefault` tags (httpserver.Config, mongo.Config, broadcast.Config, ...)
// and main loads each with Load. Parsed values are cached per type.
package config
