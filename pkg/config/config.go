package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	LogLevel           string
	StoreBackend       string
	MongoURI           string
	MongoDatabase      string
	RedisURL           string
	AuditDatabaseURL   string
	OTLPEndpoint       string
	JWTSecret          string
	SessionTTL         time.Duration
	CORSAllowedOrigins []string
	LoginRateLimit     int
	LoginRateWindow    time.Duration
	ReminderInterval   time.Duration
	PropertyCacheTTL   time.Duration
}

// IsProduction reports whether cookies must be marked Secure
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables, after loading an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	port, err := getInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	sessionHours, err := getInt("SESSION_TTL_HOURS", 168)
	if err != nil {
		return nil, err
	}
	loginLimit, err := getInt("LOGIN_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	loginWindow, err := getInt("LOGIN_RATE_WINDOW_SECONDS", 900)
	if err != nil {
		return nil, err
	}
	reminderMinutes, err := getInt("REMINDER_INTERVAL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	cacheSeconds, err := getInt("PROPERTY_CACHE_TTL_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getEnv("STORE_BACKEND", BackendMongo))
	if backend != BackendMongo && backend != BackendMemory {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want %s or %s", backend, BackendMongo, BackendMemory)
	}

	return &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		ServerPort:       port,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StoreBackend:     backend,
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "property_management"),
		RedisURL:         os.Getenv("REDIS_URL"),
		AuditDatabaseURL: os.Getenv("AUDIT_DATABASE_URL"),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		JWTSecret:        secret,
		SessionTTL:       time.Duration(sessionHours) * time.Hour,
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
		}),
		LoginRateLimit:   loginLimit,
		LoginRateWindow:  time.Duration(loginWindow) * time.Second,
		ReminderInterval: time.Duration(reminderMinutes) * time.Minute,
		PropertyCacheTTL: time.Duration(cacheSeconds) * time.Second,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
