package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/zazzles-app/credit-ledger/internal/infrastructure/config"
)

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	required := []struct {
		value, key, env string
	}{
		{cfg.Database.Host, "database.host", "ZZ_DB_HOST"},
		{cfg.Database.Port, "database.port", "ZZ_DB_PORT"},
		{cfg.Database.Username, "database.username", "ZZ_DB_USERNAME"},
		{cfg.Database.Password, "database.password", "ZZ_DB_PASSWORD"},
		{cfg.Database.Database, "database.database", "ZZ_DB_NAME"},
	}
	for _, r := range required {
		if r.value == "" {
			missingConfigs = append(missingConfigs, fmt.Sprintf("%s (or %s environment variable)", r.key, r.env))
		}
	}

	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}
	if cfg.Stripe.ChargeTimeout == 0 {
		missingConfigs = append(missingConfigs, "stripe.chargeTimeout")
	}
	if cfg.Environment == config.Production && cfg.Stripe.SecretKey == "" {
		missingConfigs = append(missingConfigs, "stripe.secretKey (or ZZ_STRIPE_SECRET_KEY environment variable)")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// A request that triggers a top-up holds the connection for the whole charge
	if cfg.Server.WriteTimeout <= cfg.Stripe.ChargeTimeout {
		return fmt.Errorf("server.writeTimeout (%s) must exceed stripe.chargeTimeout (%s)",
			cfg.Server.WriteTimeout, cfg.Stripe.ChargeTimeout)
	}

	return nil
}

// productionWarnings lists settings that work but are unsafe in production
func productionWarnings(cfg *config.Config) []string {
	if !cfg.IsProduction() {
		return nil
	}

	var warnings []string
	switch strings.ToLower(cfg.Database.SSLMode) {
	case "require", "verify-ca", "verify-full":
	default:
		warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
	}
	if cfg.Server.ReadTimeout < 5*time.Second {
		warnings = append(warnings, "server.readTimeout is too low for production")
	}
	if strings.HasPrefix(cfg.Stripe.SecretKey, "sk_test_") {
		warnings = append(warnings, "stripe.secretKey is a test mode key")
	}
	return warnings
}
