package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
server:
  port: 9090
database:
  host: db.internal
  username: ledger
  database: zazzles
credits:
  trialGrant: 10
stripe:
  secretKey: sk_test_file
`

func useConfigDir(t *testing.T, env, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(content), 0o600))

	originalConfig, originalDotEnv := ConfigPaths, DotEnvPaths
	ConfigPaths = []string{dir}
	DotEnvPaths = []string{filepath.Join(dir, ".env")}
	t.Cleanup(func() {
		ConfigPaths, DotEnvPaths = originalConfig, originalDotEnv
	})

	t.Setenv("ZZ_ENV", env)
}

func TestLoadConfig(t *testing.T) {
	t.Run("File values with defaults", func(t *testing.T) {
		useConfigDir(t, Test, testConfigYAML)

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, Test, cfg.Environment)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 10, cfg.Credits.TrialGrant)
		assert.Equal(t, time.Minute, cfg.Credits.TopUpLockTTL)
		assert.Equal(t, "sk_test_file", cfg.Stripe.SecretKey)
		assert.Equal(t, "usd", cfg.Stripe.Currency)
		assert.Equal(t, 20*time.Second, cfg.Stripe.ChargeTimeout)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("Environment overrides", func(t *testing.T) {
		useConfigDir(t, Production, testConfigYAML)
		t.Setenv("ZZ_DB_HOST", "db.prod")
		t.Setenv("ZZ_STRIPE_SECRET_KEY", "sk_live_env")
		t.Setenv("ZZ_STRIPE_CHARGE_TIMEOUT_SECONDS", "8")
		t.Setenv("ZZ_CREDITS_TRIAL_GRANT", "0")
		t.Setenv("ZZ_METRICS_ENABLED", "false")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "db.prod", cfg.Database.Host)
		assert.Equal(t, "sk_live_env", cfg.Stripe.SecretKey)
		assert.Equal(t, 8*time.Second, cfg.Stripe.ChargeTimeout)
		assert.Equal(t, 0, cfg.Credits.TrialGrant)
		assert.False(t, cfg.Metrics.Enabled)
	})

	t.Run("Missing file", func(t *testing.T) {
		useConfigDir(t, Test, testConfigYAML)
		t.Setenv("ZZ_ENV", "staging")

		_, err := LoadConfig()

		assert.Error(t, err)
	})
}
