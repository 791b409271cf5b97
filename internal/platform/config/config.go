package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string

	// IdentityMode selects the session verifier: "oidc" against the hosted
	// provider, "dev" for the in-process JWT provider.
	IdentityMode     string
	IdentityIssuer   string
	IdentityClientID string
	SessionSecret    string

	ShutdownGrace time.Duration

	EnablePreferences bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "dealerportal"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	mode := strings.TrimSpace(strings.ToLower(os.Getenv("IDENTITY_MODE")))
	if mode == "" {
		mode = "dev"
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "dev-session-secret"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		IdentityMode:     mode,
		IdentityIssuer:   os.Getenv("IDENTITY_ISSUER"),
		IdentityClientID: os.Getenv("IDENTITY_CLIENT_ID"),
		SessionSecret:    secret,

		ShutdownGrace: envDuration("SHUTDOWN_GRACE", 10*time.Second),

		EnablePreferences: envBool("ENABLE_PREFERENCES", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
