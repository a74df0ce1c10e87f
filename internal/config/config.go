package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port                string
	StripeSecretKey     string
	StripeWebhookSecret string
	CancellationCutoff  time.Duration
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:                os.Getenv("PORT"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cutoffMinutes := 120
	if raw := os.Getenv("CANCELLATION_CUTOFF_MINUTES"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			cutoffMinutes = parsed
		}
	}
	cfg.CancellationCutoff = time.Duration(cutoffMinutes) * time.Minute

	return cfg
}
