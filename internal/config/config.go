package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	LogLevel           string
	JWTSecret          string
	TokenTTL           time.Duration
	AuthRequired       bool
	CORSOrigin         string
	RatesSource        string // File path or http(s) URL of an XML rate table; empty keeps the built-in rates
	RatesRefresh       string // Cron spec for reloading RatesSource; empty disables reloads
	LockTimeout        time.Duration
	CardNumberAttempts int
	BcryptCost         int
	Locale             string
	SeedDemo           bool
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "7777"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		CORSOrigin:   getEnv("CORS_ORIGIN", "*"),
		RatesSource:  getEnv("RATES_SOURCE", ""),
		RatesRefresh: getEnv("RATES_REFRESH", ""),
		Locale:       getEnv("LOCALE", "uk"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LockTimeout, err = getDuration("LOCK_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.CardNumberAttempts, err = getInt("CARD_NUMBER_ATTEMPTS", 32); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.AuthRequired, err = getBool("AUTH_REQUIRED", false); err != nil {
		return nil, err
	}
	if cfg.SeedDemo, err = getBool("SEED_DEMO", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the service relies on
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.AuthRequired && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_REQUIRED is set")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("LOCK_TIMEOUT must be positive")
	}
	if c.CardNumberAttempts <= 0 {
		return fmt.Errorf("CARD_NUMBER_ATTEMPTS must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.RatesRefresh != "" && c.RatesSource == "" {
		return fmt.Errorf("RATES_REFRESH requires RATES_SOURCE")
	}
	if c.Locale != "uk" && c.Locale != "en" {
		return fmt.Errorf("unsupported LOCALE %q", c.Locale)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
