package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Port        string
	Env         string
	BaseURL     string
	DatabaseDSN string
	ContentDir  string

	// SessionSecret is the master secret; per-purpose signing keys are
	// derived from it.
	SessionSecret   string
	MagicLinkExpiry time.Duration
	SessionExpiry   time.Duration

	DiscordClientID     string
	DiscordClientSecret string

	ConvertKitAPIKey string
	ConvertKitTagID  string

	Email EmailConfig
}

// EmailConfig selects between the Resend HTTP API and plain SMTP.
type EmailConfig struct {
	FromAddress  string
	ResendAPIKey string
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/homestead?parseTime=true"),
		ContentDir:      getEnv("CONTENT_DIR", "content"),
		SessionSecret:   getEnv("SESSION_SECRET", "dev-secret-change-in-production"),
		MagicLinkExpiry: getDuration("MAGIC_LINK_EXPIRY", 30*time.Minute),
		SessionExpiry:   getDuration("SESSION_EXPIRY", 30*24*time.Hour),

		DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),

		ConvertKitAPIKey: os.Getenv("CONVERTKIT_API_KEY"),
		ConvertKitTagID:  os.Getenv("CONVERTKIT_TAG_ID"),

		Email: EmailConfig{
			FromAddress:  getEnv("EMAIL_FROM", "hello@localhost"),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			SMTPEnabled:  getEnv("SMTP_ENABLED", "false") == "true",
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUser:     os.Getenv("SMTP_USER"),
			SMTPPass:     os.Getenv("SMTP_PASS"),
		},
	}

	if cfg.Env == "production" && cfg.SessionSecret == "dev-secret-change-in-production" {
		slog.Error("SESSION_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
