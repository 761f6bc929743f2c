package config

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "7777" || cfg.Locale != "uk" || cfg.LockTimeout != 2*time.Second || cfg.CardNumberAttempts != 32 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AuthRequired || cfg.SeedDemo {
		t.Fatalf("optional features enabled by default: %+v", cfg)
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOCK_TIMEOUT", "150ms")
	t.Setenv("CARD_NUMBER_ATTEMPTS", "5")
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("LOCALE", "en")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9000" || cfg.LockTimeout != 150*time.Millisecond || cfg.CardNumberAttempts != 5 || !cfg.SeedDemo || cfg.Locale != "en" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestNewConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"LOCK_TIMEOUT", "soon"},
		{"LOCK_TIMEOUT", "0s"},
		{"CARD_NUMBER_ATTEMPTS", "many"},
		{"CARD_NUMBER_ATTEMPTS", "0"},
		{"BCRYPT_COST", "2"},
		{"SEED_DEMO", "maybe"},
		{"LOCALE", "fr"},
		{"RATES_REFRESH", "@every 1h"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := NewConfig(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
