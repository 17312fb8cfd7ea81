package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
api:
  environment: test
  port: "8080"
  jwt_signing_key: secret
  token_ttl: 24h
  allowed_cors_domains:
    - http://localhost:3000
gin:
  mode: test
postgres:
  host: db
redis:
  addr: localhost:6379
  login_rate_limit: 3
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, 24*time.Hour, conf.API.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "test", conf.Gin.Mode)
	assert.Equal(t, "db", conf.Postgres.Host)
	assert.Equal(t, "5432", conf.Postgres.Port)
	assert.Equal(t, "postgres", conf.Database.Driver)
	assert.Equal(t, int64(3), conf.Redis.LoginRateLimit)
	assert.Equal(t, time.Minute, conf.Redis.RateWindow)
	assert.Equal(t, "uploads", conf.Upload.Dir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("POSTGRES_HOST", "pg.internal")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	conf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "9999", conf.API.Port)
	assert.Equal(t, "pg.internal", conf.Postgres.Host)
	assert.Equal(t, "sqlite", conf.Database.Driver)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("API_JWT_SIGNING_KEY", "from-env")

	conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "5000", conf.API.Port)
	assert.Equal(t, "from-env", conf.API.JWTSigningKey)
	assert.Equal(t, 720*time.Hour, conf.API.TokenTTL)
}

func TestLoad_RequiresSigningKey(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  port: \"1\"\n"))
	assert.EqualError(t, err, "api.jwt_signing_key is required")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	_, err := Load(writeConfig(t, testYAML+"database:\n  driver: mysql\n"))
	assert.Error(t, err)
}
