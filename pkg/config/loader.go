package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache keeps one parsed copy per configuration type.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	global = &cache{values: make(map[reflect.Type]any)}

	dotenvOnce sync.Once
	dotenvErr  error
	dotenvFile = []string{} // empty means godotenv's default ".env"
)

// UseEnvFiles selects the dotenv files read before the first Load.
// It has no effect once any configuration has been loaded.
func UseEnvFiles(files ...string) {
	dotenvFile = files
}

// Load parses environment variables into v according to its `env` tags.
// Each configuration type is parsed once; later calls return the cached copy.
//
//	var cfg broadcast.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// A missing .env file is normal outside local development.
		if err := godotenv.Load(dotenvFile...); err != nil && len(dotenvFile) > 0 {
			dotenvErr = err
		}
	})
	if dotenvErr != nil {
		return errors.Join(ErrEnvFile, dotenvErr)
	}

	key := reflect.TypeFor[T]()

	global.mu.Lock()
	defer global.mu.Unlock()

	if cached, ok := global.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	global.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics on failure. Intended for main.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reset drops every cached configuration. Tests use it between cases that
// change the environment.
func Reset() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.values = make(map[reflect.Type]any)
}
