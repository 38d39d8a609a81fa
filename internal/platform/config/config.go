// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. An optional dotenv file
is merged into the process environment first (existing variables win).

Usage:

	cfg, err := config.Load(".env")
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, session backend) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/constants"
)

// # Session Backends

const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the Aegis API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL). Empty selects the in-memory demo user store.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis). Required by the redis session backend.
	RedisURL string `env:"REDIS_URL"`

	// RS256 key pair. Both empty selects an ephemeral in-process key.
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`

	// Session persistence
	SessionBackend  string        `env:"SESSION_BACKEND"   envDefault:"cookie"`
	SessionHashKey  string        `env:"SESSION_HASH_KEY"`
	SessionBlockKey string        `env:"SESSION_BLOCK_KEY"`
	SessionTTL      time.Duration `env:"SESSION_TTL"       envDefault:"168h"`

	// Route guard
	LoginPath          string       `env:"LOGIN_PATH"           envDefault:"/auth/login"`
	UnlistedRouteLevel access.Level `env:"UNLISTED_ROUTE_LEVEL" envDefault:"public"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"aegis.app"`
}

// # Configuration Loading

// Load merges the optional dotenv files into the environment and parses it
// into a [Config]. Missing dotenv files are not an error.
func Load(dotenvFiles ...string) (*Config, error) {

	// Variables already set in the process take precedence over the file.
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.SessionBackend {
	case SessionBackendCookie:
		if _, _, err := c.SessionKeys(); err != nil {
			return err
		}
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required when SESSION_BACKEND=redis")
		}
	case SessionBackendMemory:
		if c.IsProduction() {
			return errors.New("config: SESSION_BACKEND=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if (c.JWTPrivKeyPath == "") != (c.JWTPubKeyPath == "") {
		return errors.New("config: JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together")
	}

	if !strings.HasPrefix(c.LoginPath, "/") {
		return fmt.Errorf("config: LOGIN_PATH must be an absolute path, got %q", c.LoginPath)
	}

	if c.SessionTTL <= 0 {
		c.SessionTTL = constants.DefaultSessionTTL
	}

	return nil
}

// SessionKeys decodes the hex-encoded securecookie keys. The hash key must be
// at least 32 bytes; the block key is optional and, when set, must be a valid
// AES key size.
func (c *Config) SessionKeys() (hashKey, blockKey []byte, err error) {
	hashKey, err = hex.DecodeString(c.SessionHashKey)
	if err != nil {
		return nil, nil, fmt.Errorf("config: SESSION_HASH_KEY is not hex: %w", err)
	}
	if len(hashKey) < 32 {
		return nil, nil, errors.New("config: SESSION_HASH_KEY must decode to at least 32 bytes")
	}

	if c.SessionBlockKey == "" {
		return hashKey, nil, nil
	}

	blockKey, err = hex.DecodeString(c.SessionBlockKey)
	if err != nil {
		return nil, nil, fmt.Errorf("config: SESSION_BLOCK_KEY is not hex: %w", err)
	}
	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return nil, nil, errors.New("config: SESSION_BLOCK_KEY must decode to 16, 24 or 32 bytes")
	}

	return hashKey, blockKey, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix returns the suffix trusted by the CORS middleware outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
