package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	CORS          CORSConfig
	RateLimit     RateLimitConfig
	Registrations RegistrationsConfig
	Events        EventsConfig
	Logging       LoggingConfig
	Environment   string
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	ConnectTimeout time.Duration
}

type AuthConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
	Issuer        string
}

type CORSConfig struct {
	// AllowedOrigins is the comma-separated production allowlist.
	AllowedOrigins []string
	// AllowAllOrigins reflects credentialed requests from any origin;
	// only honored outside production.
	AllowAllOrigins bool
}

type RateLimitConfig struct {
	PublicPerMinute int
	LoginPerMinute  int
}

type RegistrationsConfig struct {
	// UpdateUpsert makes PUT /registrations/{id} create the record when
	// the id does not exist instead of returning 404.
	UpdateUpsert bool
}

type EventsConfig struct {
	// UpdateUpsert makes PUT /events/{id} create the record when the id
	// does not exist instead of returning 404.
	UpdateUpsert bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	env := getEnv("ENVIRONMENT", "development")

	cfg := Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 25),
			ConnectTimeout: time.Duration(getEnvInt("DATABASE_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 365*24)) * time.Hour,
			Issuer:        getEnv("SESSION_ISSUER", "stride"),
		},
		CORS: CORSConfig{
			AllowedOrigins:  splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
			AllowAllOrigins: env != "production",
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute: getEnvInt("RATE_LIMIT_PUBLIC", 120),
			LoginPerMinute:  getEnvInt("RATE_LIMIT_LOGIN", 10),
		},
		Registrations: RegistrationsConfig{
			UpdateUpsert: getEnvBool("REGISTRATION_UPDATE_UPSERT", false),
		},
		Events: EventsConfig{
			UpdateUpsert: getEnvBool("EVENT_UPDATE_UPSERT", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: env,
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Auth.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.Environment == "production" && len(cfg.CORS.AllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS is required in production")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitAndTrim(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
