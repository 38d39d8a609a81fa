// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/config"
)

var validHashKey = strings.Repeat("ab", 32)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_HASH_KEY", validHashKey)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.SessionBackendCookie, cfg.SessionBackend)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "/auth/login", cfg.LoginPath)
	assert.Equal(t, access.LevelPublic, cfg.UnlistedRouteLevel)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_UnlistedRouteLevel(t *testing.T) {
	t.Setenv("SESSION_HASH_KEY", validHashKey)
	t.Setenv("UNLISTED_ROUTE_LEVEL", "admin")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, access.LevelAdmin, cfg.UnlistedRouteLevel)

	t.Setenv("UNLISTED_ROUTE_LEVEL", "superuser")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("SESSION_BACKEND=memory\nSERVER_PORT=9090\n"), 0o600))

	// godotenv writes into the process env; make sure the test cleans up.
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("SERVER_PORT", "")
	require.NoError(t, os.Unsetenv("SESSION_BACKEND"))
	require.NoError(t, os.Unsetenv("SERVER_PORT"))

	cfg, err := config.Load(file, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, config.SessionBackendMemory, cfg.SessionBackend)
	assert.Equal(t, "9090", cfg.ServerPort)
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Environment:    "development",
			SessionBackend: config.SessionBackendCookie,
			SessionHashKey: validHashKey,
			SessionTTL:     time.Hour,
			LoginPath:      "/auth/login",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"short_hash_key", func(c *config.Config) { c.SessionHashKey = "abcd" }, "SESSION_HASH_KEY"},
		{"bad_block_key", func(c *config.Config) { c.SessionBlockKey = "abcd" }, "SESSION_BLOCK_KEY"},
		{"redis_without_url", func(c *config.Config) { c.SessionBackend = config.SessionBackendRedis }, "REDIS_URL"},
		{"memory_in_production", func(c *config.Config) {
			c.SessionBackend = config.SessionBackendMemory
			c.Environment = "production"
		}, "not allowed"},
		{"unknown_backend", func(c *config.Config) { c.SessionBackend = "file" }, "unknown SESSION_BACKEND"},
		{"half_key_pair", func(c *config.Config) { c.JWTPrivKeyPath = "/keys/private.pem" }, "JWT_"},
		{"relative_login", func(c *config.Config) { c.LoginPath = "auth/login" }, "LOGIN_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
