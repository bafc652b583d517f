package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "TURSO_DATABASE_URL", "ADPULSE_DEMO", "ADPULSE_OTEL_ENABLED", "ADPULSE_SERVER_ADDR")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10.0, cfg.Server.RateLimit)
	assert.False(t, cfg.Server.TrustProxy)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.OTel.Enabled)
	assert.True(t, cfg.DemoMode(), "no database URL means demo mode")
}

func TestLoadFromEnvFile(t *testing.T) {
	t.Setenv("ADPULSE_SERVER_ADDR", ":9090")
	// godotenv never overrides variables that are already set.
	unsetenv(t, "TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN", "ADPULSE_DEMO", "ADPULSE_OTEL_ENABLED", "ADPULSE_OTEL_ENDPOINT")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"TURSO_DATABASE_URL=libsql://adpulse.turso.io\n"+
			"TURSO_AUTH_TOKEN=secret\n"+
			"ADPULSE_SERVER_ADDR=:7070\n"+
			"ADPULSE_OTEL_ENABLED=true\n"+
			"ADPULSE_OTEL_ENDPOINT=localhost:4317\n",
	), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "libsql://adpulse.turso.io", cfg.Database.URL)
	assert.Equal(t, "secret", cfg.Database.AuthToken)
	assert.Equal(t, ":9090", cfg.Server.Addr, "environment wins over .env")
	assert.True(t, cfg.OTel.Enabled)
	assert.Equal(t, "localhost:4317", cfg.OTel.Endpoint)
	assert.False(t, cfg.DemoMode())
}

func TestDemoFlagForcesDemoMode(t *testing.T) {
	t.Setenv("TURSO_DATABASE_URL", "libsql://adpulse.turso.io")
	t.Setenv("ADPULSE_DEMO", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.True(t, cfg.DemoMode())
}

func TestLoadRejectsBadValues(t *testing.T) {
	unsetenv(t, "ADPULSE_DEMO")
	t.Setenv("ADPULSE_SERVER_RATE_BURST", "lots")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
