package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Variables from .env never override the real environment
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix("ZZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first readable .env file on the search path
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			lastError = err
			continue
		}
		return nil
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 45)      // seconds, covers a top-up charge
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 25)   // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds
	v.SetDefault("database.isolationLevel", "read_committed")
	v.SetDefault("database.logLevel", "warn")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("credits.trialGrant", 30)
	v.SetDefault("credits.topUpLockSeconds", 60)
	v.SetDefault("credits.listLimit", 50)

	v.SetDefault("stripe.currency", "usd")
	v.SetDefault("stripe.chargeTimeout", 20) // seconds

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// getEnvironment determines the environment from ZZ_ENV
func getEnvironment() string {
	env := os.Getenv("ZZ_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides applies ZZ_* variables on top of file values
func processEnvOverrides(v *viper.Viper) {
	stringOverrides := map[string]string{
		"ZZ_DB_HOST":            "database.host",
		"ZZ_DB_PORT":            "database.port",
		"ZZ_DB_USERNAME":        "database.username",
		"ZZ_DB_PASSWORD":        "database.password",
		"ZZ_DB_NAME":            "database.database",
		"ZZ_DB_SSL_MODE":        "database.sslMode",
		"ZZ_DB_ISOLATION_LEVEL": "database.isolationLevel",
		"ZZ_DB_LOG_LEVEL":       "database.logLevel",
		"ZZ_SERVER_HOST":        "server.host",
		"ZZ_SERVER_PORT":        "server.port",
		"ZZ_LOGGER_LEVEL":       "logger.level",
		"ZZ_STRIPE_SECRET_KEY":  "stripe.secretKey",
		"ZZ_STRIPE_CURRENCY":    "stripe.currency",
		"ZZ_METRICS_PATH":       "metrics.path",
	}
	for env, key := range stringOverrides {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}

	positiveIntOverrides := map[string]string{
		"ZZ_DB_MAX_OPEN_CONNS":             "database.maxOpenConns",
		"ZZ_DB_MAX_IDLE_CONNS":             "database.maxIdleConns",
		"ZZ_DB_CONN_MAX_LIFETIME_MINUTES":  "database.connMaxLifetime",
		"ZZ_DB_CONN_MAX_IDLE_TIME_MINUTES": "database.connMaxIdleTime",
		"ZZ_DB_QUERY_TIMEOUT_SECONDS":      "database.queryTimeout",
		"ZZ_STRIPE_CHARGE_TIMEOUT_SECONDS": "stripe.chargeTimeout",
		"ZZ_TOPUP_LOCK_SECONDS":            "credits.topUpLockSeconds",
		"ZZ_CREDITS_LIST_LIMIT":            "credits.listLimit",
	}
	for env, key := range positiveIntOverrides {
		if value := getEnvInt(env, 0); value > 0 {
			v.Set(key, value)
		}
	}

	nonNegativeIntOverrides := map[string]string{
		"ZZ_DB_RETRY_ATTEMPTS":      "database.retryAttempts",
		"ZZ_DB_RETRY_DELAY_SECONDS": "database.retryDelay",
		"ZZ_CREDITS_TRIAL_GRANT":    "credits.trialGrant",
	}
	for env, key := range nonNegativeIntOverrides {
		if value := getEnvInt(env, -1); value >= 0 {
			v.Set(key, value)
		}
	}

	if enabled, err := strconv.ParseBool(os.Getenv("ZZ_METRICS_ENABLED")); err == nil {
		v.Set("metrics.enabled", enabled)
	}
}

// getEnvInt reads an integer variable, falling back to defaultVal
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts the integer seconds/minutes read from the file into durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Credits.TopUpLockTTL = time.Duration(config.Credits.TopUpLockTTL) * time.Second
	config.Stripe.ChargeTimeout = time.Duration(config.Stripe.ChargeTimeout) * time.Second
}
