package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: 9090
  mode: release
database:
  host: db.internal
  port: 5432
  user: app
  password: pw
  dbname: whisperbox
  sslmode: disable
redis:
  host: cache.internal
  port: 6379
jwt:
  secret: topsecret
  expire_hours: 12
email:
  api_key: re_123
  from: noreply@example.com
ai:
  api_key: ai_456
  model: gemini-2.0-flash
app:
  base_url: https://whisperbox.example.com
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "topsecret", cfg.JWT.Secret)
	assert.Equal(t, 12, cfg.JWT.ExpireHours)
	assert.Equal(t, "noreply@example.com", cfg.Email.From)
	assert.Equal(t, "https://whisperbox.example.com", cfg.App.BaseURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("EMAIL_API_KEY", "re_env")
	t.Setenv("APP_BASE_URL", "https://env.example.com")

	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "re_env", cfg.Email.APIKey)
	assert.Equal(t, "https://env.example.com", cfg.App.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t,
		"host=db.internal port=5432 user=app password=pw dbname=whisperbox sslmode=disable",
		cfg.Database.DSN())
}
