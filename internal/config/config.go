package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// fixed identity credentials
	AdminEmail    string
	AdminPassword string
	UserEmail     string
	UserPassword  string

	// session signing
	SessionSecret     string
	SessionTTLMinutes int

	// optional extras
	RedisAddr      string
	OTLPEndpoint   string
	AllowedOrigins []string
}

var (
	ErrMissingSessionSecret = errors.New("SESSION_SECRET is required")
	ErrMissingDBURL         = errors.New("database connection is required (DATABASE_URL or DB_* vars)")
)

func Load() (Config, error) {
	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		DBURL: resolveDBURL(),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@feedbacksystem.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		UserEmail:     getEnv("USER_EMAIL", "user@email.com"),
		UserPassword:  getEnv("USER_PASSWORD", "user123"),

		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 720),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	// both of these are startup-fatal; the server cannot run without them

	if cfg.SessionSecret == "" {
		return Config{}, ErrMissingSessionSecret
	}

	if cfg.DBURL == "" {
		return Config{}, ErrMissingDBURL
	}

	return cfg, nil
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// resolveDBURL prefers a full DATABASE_URL and falls back to assembling
// one from the individual DB_* parts.
func resolveDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := os.Getenv("DB_HOST")

	if host == "" {
		return ""
	}

	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "feedbackhub")
	pass := getEnv("DB_PASSWORD", "feedbackhub")
	name := getEnv("DB_NAME", "feedbackhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}

	return fallback
}
