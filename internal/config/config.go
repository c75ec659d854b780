// Package config provides type-safe environment variable loading with
// per-type caching. A .env file, if present, is loaded once before the
// first parse.
package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> parsed config value
)

// Load parses environment variables into cfg, which must be a pointer to a
// struct with `env:` tags. Each configuration type is parsed once per
// process; later calls for the same type receive the cached value.
func Load(cfg any) error {
	dotenvOnce.Do(func() {
		// Missing .env is not an error; env vars may come from the host.
		_ = godotenv.Load()
	})

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: expected non-nil struct pointer, got %T", cfg)
	}

	t := v.Elem().Type()
	if cached, ok := cache.Load(t); ok {
		v.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", t, err)
	}

	cache.Store(t, v.Elem().Interface())
	return nil
}

// MustLoad is like Load but panics on failure. Intended for process startup.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
