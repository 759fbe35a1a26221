package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
log_level: debug
database:
  host: db
  port: "5433"
  user: app
  password: secret
  database: orders
rabbitmq:
  host: mq
  port: "5672"
  user: guest
  password: guest
  vhost: food
redis:
  addr: cache:6379
auth:
  secret: 0123456789abcdef0123
  token_ttl: 2h
orders:
  strict_transitions: false
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileOverDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "db", cfg.DB.Host)
	assert.Equal(t, "5433", cfg.DB.Port)
	assert.Equal(t, "disable", cfg.DB.SSLMode, "defaults survive for missing keys")
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Orders.StrictTransitions)
	assert.Equal(t, "Guest", cfg.Orders.CustomerName)
	assert.Equal(t, UploadsLocal, cfg.Uploads.Driver)
	assert.Equal(t, "amqp://guest:guest@mq:5672/food", cfg.RMQ.URL())
	assert.Equal(t, "postgres://app:secret@db:5433/orders?sslmode=disable", cfg.DB.DSN())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "env-db")
	t.Setenv("REDIS_ADDR", "env-cache:6379")
	t.Setenv("AUTH_SECRET", "env-secret-env-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-db", cfg.DB.Host)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "env-cache:6379", cfg.Redis.Addr)
	assert.Nil(t, cfg.RMQ)
	assert.True(t, cfg.Orders.StrictTransitions)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short secret", "auth:\n  secret: short\n"},
		{"unknown driver", "auth:\n  secret: 0123456789abcdef\nuploads:\n  driver: ftp\n"},
		{"s3 without bucket", "auth:\n  secret: 0123456789abcdef\nuploads:\n  driver: s3\n"},
		{"bad yaml", "database: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}
