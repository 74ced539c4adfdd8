package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zazzles-app/credit-ledger/internal/infrastructure/config"
)

func validConfig() *Config {
	c := DefaultConfig()
	c.Host = "localhost"
	c.Username = "zazzles"
	c.Password = "secret"
	c.Database = "zazzles_credits"
	return c
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing host", func(c *Config) { c.Host = "" }, "host is required"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "invalid port"},
		{"missing password", func(c *Config) { c.Password = "" }, "password is required"},
		{"other driver", func(c *Config) { c.Driver = "mysql" }, "unsupported database driver"},
		{"bad ssl mode", func(c *Config) { c.SSLMode = "sometimes" }, "invalid SSL mode"},
		{"no connections", func(c *Config) { c.MaxOpenConns = 0 }, "max open connections"},
		{"no query timeout", func(c *Config) { c.QueryTimeout = 0 }, "query timeout"},
		{"bad isolation", func(c *Config) { c.IsolationLevel = "snapshot" }, "invalid isolation level"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfigIsolation(t *testing.T) {
	assert.Equal(t, sql.LevelReadCommitted, validConfig().Isolation())
	assert.Equal(t, sql.LevelSerializable, validConfig().WithIsolationLevel("SERIALIZABLE").Isolation())
	assert.Equal(t, sql.LevelReadCommitted, validConfig().WithIsolationLevel("unknown").Isolation())
}

func TestConfigDSN(t *testing.T) {
	assert.Equal(t,
		"host=localhost port=5432 user=zazzles password=secret dbname=zazzles_credits sslmode=disable",
		validConfig().DSN())
}

func TestFromAppConfig(t *testing.T) {
	appConfig := &config.Config{Database: config.DatabaseConfig{
		Host:           "db.internal",
		Port:           "6432",
		Username:       "ledger",
		Password:       "pw",
		Database:       "credits",
		SSLMode:        "require",
		MaxOpenConns:   80,
		QueryTimeout:   3 * time.Second,
		RetryDelay:     2 * time.Second,
		IsolationLevel: "serializable",
	}}

	c := FromAppConfig(appConfig)

	assert.Equal(t, "db.internal", c.Host)
	assert.Equal(t, 6432, c.Port)
	assert.Equal(t, "require", c.SSLMode)
	assert.Equal(t, 80, c.MaxOpenConns)
	assert.Equal(t, 25, c.MaxIdleConns, "unset values keep defaults")
	assert.Equal(t, 3*time.Second, c.QueryTimeout)
	assert.Equal(t, 2*time.Second, c.RetryDelay)
	assert.Equal(t, sql.LevelSerializable, c.Isolation())
	assert.NoError(t, c.Validate())
}

func TestParsePort(t *testing.T) {
	assert.Equal(t, 5432, ParsePort("5432"))
	assert.Equal(t, 0, ParsePort(""))
	assert.Equal(t, 0, ParsePort("abc"))
	assert.Equal(t, 0, ParsePort("70000"))
}
