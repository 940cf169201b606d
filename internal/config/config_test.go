package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "pietro", cfg.Auth.AdminUser)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "https://graph.facebook.com/v17.0", cfg.WhatsApp.GraphBase)
	assert.False(t, cfg.WhatsApp.Configured())
	assert.False(t, cfg.Search.Meilisearch.Enabled())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.yaml")
	content := `
server:
  port: "9000"
database:
  type: mysql
  mysql:
    host: db.internal
    port: 3307
auth:
  admin_user: ana
whatsapp:
  token: file-token
  phone_number_id: "123"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DB_HOST", "env-host")
	t.Setenv("WHATSAPP_TOKEN", "env-token")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "env-host", cfg.Database.MySQL.Host)
	assert.Equal(t, 3307, cfg.Database.MySQL.Port)
	assert.Equal(t, "ana", cfg.Auth.AdminUser)
	assert.Equal(t, "env-token", cfg.WhatsApp.Token)
	assert.True(t, cfg.WhatsApp.Configured())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
