package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Default()
	cfg.DatabaseURL = "postgres://localhost/corpdash"
	cfg.SessionSecret = "secret"
	cfg.CSRFKey = "0123456789abcdef0123456789abcdef"
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(envFileVar, "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, 10, cfg.LoginRateLimit)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(envFileVar, "")
	t.Setenv("CORPDASH_ADDR", ":9999")
	t.Setenv("CORPDASH_SESSION_TTL", "30m")
	t.Setenv("CORPDASH_RUN_MIGRATIONS", "false")
	t.Setenv("CORPDASH_LOGIN_RATE_LIMIT", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, 3, cfg.LoginRateLimit)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7000\"\nlog_level: debug\n"), 0o600))
	t.Setenv(envFileVar, path)
	t.Setenv("CORPDASH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.CSRFKey = "short"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Environment = "production"
	cfg.SeedCEOPassword = ""
	assert.Error(t, cfg.Validate())

	cfg.RunSeed = false
	assert.NoError(t, cfg.Validate())
}
