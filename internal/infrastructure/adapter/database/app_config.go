package database

import (
	"fmt"

	"github.com/zazzles-app/credit-ledger/internal/infrastructure/config"
)

// FromAppConfig adapts the application configuration to database configuration.
// Zero values in conf keep the defaults of DefaultConfig
func FromAppConfig(conf *config.Config) *Config {
	dbConf := DefaultConfig()
	db := conf.Database

	dbConf.Host = db.Host
	dbConf.Username = db.Username
	dbConf.Password = db.Password
	dbConf.Database = db.Database
	if port := ParsePort(db.Port); port > 0 {
		dbConf.Port = port
	}

	if db.Driver != "" {
		dbConf.Driver = db.Driver
	}
	if db.SSLMode != "" {
		dbConf.SSLMode = db.SSLMode
	}
	if db.MaxOpenConns > 0 {
		dbConf.MaxOpenConns = db.MaxOpenConns
	}
	if db.MaxIdleConns > 0 {
		dbConf.MaxIdleConns = db.MaxIdleConns
	}
	if db.ConnMaxLifetime > 0 {
		dbConf.ConnMaxLifetime = db.ConnMaxLifetime
	}
	if db.ConnMaxIdleTime > 0 {
		dbConf.ConnMaxIdleTime = db.ConnMaxIdleTime
	}
	if db.QueryTimeout > 0 {
		dbConf.QueryTimeout = db.QueryTimeout
	}
	if db.RetryAttempts > 0 {
		dbConf.RetryAttempts = db.RetryAttempts
	}
	if db.RetryDelay > 0 {
		dbConf.RetryDelay = db.RetryDelay
	}
	if db.IsolationLevel != "" {
		dbConf.IsolationLevel = db.IsolationLevel
	}
	if db.LogLevel != "" {
		dbConf.LogLevel = db.LogLevel
	}

	return dbConf
}

// ParsePort converts a port string to an int; 0 means unset or invalid
func ParsePort(port string) int {
	var p int
	_, err := fmt.Sscanf(port, "%d", &p)
	if err != nil || p <= 0 || p > 65535 {
		return 0
	}
	return p
}
