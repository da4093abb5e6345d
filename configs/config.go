package configs

import (
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Ledger   LedgerConfig
	Oracle   OracleConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration. An empty URL selects the
// in-memory ledger store.
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds boundary authentication configuration
type AuthConfig struct {
	JWTSecret string
}

// LedgerConfig holds the business policy knobs of the ledger
type LedgerConfig struct {
	StartingBalance decimal.Decimal
	MinDeposit      decimal.Decimal
	MaxDeposit      decimal.Decimal
	AuditSchedule   string
}

// OracleConfig holds price oracle configuration
type OracleConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "default-secret-change-in-production"),
		},
		Ledger: LedgerConfig{
			StartingBalance: getEnvDecimal("STARTING_BALANCE", "10000.00"),
			MinDeposit:      getEnvDecimal("MIN_DEPOSIT", "100.00"),
			MaxDeposit:      getEnvDecimal("MAX_DEPOSIT", "1000000.00"),
			AuditSchedule:   getEnv("AUDIT_SCHEDULE", "@hourly"),
		},
		Oracle: OracleConfig{
			BaseURL: getEnv("ORACLE_BASE_URL", "https://query2.finance.yahoo.com"),
			Timeout: getEnvDuration("ORACLE_TIMEOUT", 8*time.Second),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDecimal parses a decimal environment variable, falling back to
// the default on absence or a malformed value
func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultValue)
}

// getEnvDuration parses a duration environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
