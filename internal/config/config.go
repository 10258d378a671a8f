package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port           string
	DBConn         string
	MigrationsPath string
	LogLevel       string
	JWTSecret      string

	// Reporting currency; stored amounts in other currencies are normalized
	// to this one for cross-ledger aggregates.
	BaseCurrency   string
	CurrencySymbol string
	RatesURL       string

	// Risk and metrics policy. Named here so tests can exercise boundary
	// values explicitly instead of relying on inline literals.
	RiskCriticalAmount decimal.Decimal
	RiskCriticalDays   int
	ShortfallFloor     decimal.Decimal
	LiquidityFloor     decimal.Decimal

	DefaultProjectionMonths int

	// Overdue sweep
	SweepSchedule string

	// SMTP for overdue reminders; reminders are skipped when SMTPHost is empty
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBConn:         getEnv("DB_CONN", "host=localhost port=5432 user=finops password=finops dbname=finops sslmode=disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		BaseCurrency:   getEnv("BASE_CURRENCY", "USD"),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "$"),
		RatesURL:       getEnv("RATES_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"),
		SweepSchedule:  getEnv("SWEEP_SCHEDULE", "0 3 * * *"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", "noreply@finops.local"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.RiskCriticalAmount, err = getDecimal("RISK_CRITICAL_AMOUNT", "10000"); err != nil {
		return nil, err
	}
	if cfg.RiskCriticalDays, err = getInt("RISK_CRITICAL_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.ShortfallFloor, err = getDecimal("SHORTFALL_FLOOR", "0"); err != nil {
		return nil, err
	}
	if cfg.LiquidityFloor, err = getDecimal("LIQUIDITY_FLOOR", "1"); err != nil {
		return nil, err
	}
	if cfg.LiquidityFloor.Sign() <= 0 {
		return nil, fmt.Errorf("LIQUIDITY_FLOOR must be positive")
	}
	if cfg.DefaultProjectionMonths, err = getInt("PROJECTION_MONTHS", 6); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDecimal(key, defaultVal string) (decimal.Decimal, error) {
	raw := getEnv(key, defaultVal)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal number: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultVal int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
