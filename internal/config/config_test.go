package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(5000), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Admin.RegistrationEnabled)
	assert.Nil(t, cfg.HTTP.CORSOrigins)
	assert.Empty(t, cfg.Plausible.Domain)
	assert.False(t, cfg.Demo.Enabled)
}

func TestNewConfig_SecretKeyPrecedence(t *testing.T) {
	t.Setenv("AUTH_SESSION_SECRET", "fallback")
	assert.Equal(t, "fallback", NewConfig().Auth.SessionSecret)

	t.Setenv("SECRET_KEY", "primary")
	assert.Equal(t, "primary", NewConfig().Auth.SessionSecret)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", " postgres://u:p@db:5432/tourism ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ADMIN_REGISTRATION_ENABLED", "false")
	t.Setenv("PLAUSIBLE_DOMAIN", "tours.example")
	t.Setenv("DEMO_MODE", "true")

	cfg := NewConfig()
	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "postgres://u:p@db:5432/tourism", cfg.Database.URL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.False(t, cfg.Admin.RegistrationEnabled)
	assert.Equal(t, "tours.example", cfg.Plausible.Domain)
	assert.True(t, cfg.Demo.Enabled)
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("values are exported", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("TOURISM_DOTENV_PROBE=loaded\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("TOURISM_DOTENV_PROBE") })

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "loaded", os.Getenv("TOURISM_DOTENV_PROBE"))
	})
}
