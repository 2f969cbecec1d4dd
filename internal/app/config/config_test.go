package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
env: production
jwt:
  secret: file-secret
cart:
  store: redis
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, "redis", cfg.Cart.Store)
	assert.Equal(t, "8080", cfg.HTTPServer.Port)
	assert.Equal(t, 10*time.Minute, cfg.Auth.CodeTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: file-secret
`)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("RATE_LIMIT_AUTH_REQUESTS", "2")

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 2, cfg.RateLimit.AuthRequests)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_MissingFileReadsEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "only-env", cfg.JWT.Secret)
}
